package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDomain(t *testing.T) {
	tests := []struct {
		input    string
		expected Domain
		wantErr  bool
	}{
		{"", DomainAuto, false},
		{"consommation", DomainConsumption, false},
		{"Consommation", DomainConsumption, false},
		{"reception", DomainReception, false},
		{"réception", DomainReception, false},
		{"RÉCEPTIONS", DomainReception, false},
		{"stock", DomainAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDomain(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownDomain)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDomainLabel(t *testing.T) {
	assert.Equal(t, "consommation", DomainConsumption.Label())
	assert.Equal(t, "réception", DomainReception.Label())
	assert.Equal(t, "consommation", DomainAuto.Label())
}

func TestDetectDomain(t *testing.T) {
	assert.Equal(t, DomainReception, DetectDomain("La quantité réceptionnée de MAIS le 01/06/2024 est de 12 tonnes."))
	assert.Equal(t, DomainReception, DetectDomain("Livraisons de ORGE sur la période"))
	assert.Equal(t, DomainConsumption, DetectDomain("La consommation de la famille MAIS le 01/06/2024 est de 10,00 unités."))
	assert.Equal(t, DomainConsumption, DetectDomain(""))
}

func TestFoldText(t *testing.T) {
	assert.Equal(t, "MAIS", foldText(" maïs "))
	assert.Equal(t, "BLE FOURRAGER", foldText("blé fourrager"))
}
