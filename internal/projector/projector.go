// Package projector turns analytics payloads into display tables.
package projector

import (
	"unicode"
	"unicode/utf8"

	"github.com/sjperalta/consulta-api/internal/format"
	"github.com/sjperalta/consulta-api/internal/models"
)

const (
	tonnes = " tonnes"

	headerMetric  = "Métrique"
	headerValue   = "Valeur"
	headerDate    = "Date"
	headerEntries = "Nombre d'entrées"

	defaultDailyOperationLabel = "Résultat"
	defaultOperationLabel      = "Résultat de l'opération"
)

// Project classifies the payload and renders it as a table. domainLabel is the
// business wording ("consommation", "réception") used in titles and labels.
// It returns nil when the payload carries no computed result.
func Project(p *models.AnalyticsPayload, domainLabel string) *models.TableDescriptor {
	shape := Classify(p)
	if shape == nil {
		return nil
	}
	return Render(shape, domainLabel)
}

// Render builds the table for an already classified shape
func Render(shape Shape, domainLabel string) *models.TableDescriptor {
	switch s := shape.(type) {
	case DailyRange:
		return renderDailyRange(s, domainLabel)
	case OperationOnly:
		return renderOperationOnly(s, domainLabel)
	case SingleDate:
		return renderSingleDate(s, domainLabel)
	case GeneralStats:
		return renderGeneralStats(s, domainLabel)
	}
	return nil
}

func renderDailyRange(s DailyRange, label string) *models.TableDescriptor {
	rows := make([][]string, 0, len(s.Days)+2)
	for _, day := range s.Days {
		rows = append(rows, []string{day.Key, format.Number(day.Total), format.Count(day.Entries)})
	}
	rows = append(rows, []string{models.TotalRowLabel, format.Number(s.Sum), format.Count(s.Count)})

	if s.Operation != nil {
		rows = append(rows, []string{
			orDefault(s.Operation.Explanation, defaultDailyOperationLabel),
			format.Float(s.Operation.Result),
			"",
		})
	}

	return &models.TableDescriptor{
		Title:   capitalize(label) + " par jour",
		Headers: []string{headerDate, label + " (tonnes)", headerEntries},
		Rows:    rows,
	}
}

func renderOperationOnly(s OperationOnly, label string) *models.TableDescriptor {
	return &models.TableDescriptor{
		Title:   defaultOperationLabel,
		Headers: []string{headerMetric, headerValue},
		Rows: [][]string{
			{label + " totale", format.Number(s.Sum) + tonnes},
			{orDefault(s.Operation.Explanation, defaultOperationLabel), format.Float(s.Operation.Result) + tonnes},
		},
	}
}

func renderSingleDate(s SingleDate, label string) *models.TableDescriptor {
	rows := [][]string{
		{headerDate, format.Date(s.Date)},
		{"Famille", s.Family},
		{label + " totale", format.Number(s.Stats.Sum) + tonnes},
		{headerEntries, format.Count(s.Stats.Count)},
	}

	// Spread figures are meaningless for a single entry
	if s.Stats.Count != nil && *s.Stats.Count > 1 {
		rows = append(rows,
			[]string{"Moyenne par entrée", format.Number(s.Stats.Mean) + tonnes},
			[]string{"Minimum", format.Number(s.Stats.Min) + tonnes},
			[]string{"Maximum", format.Number(s.Stats.Max) + tonnes},
		)
	}

	return &models.TableDescriptor{
		Title:   "Résumé de la " + label,
		Headers: []string{headerMetric, headerValue},
		Rows:    rows,
	}
}

func renderGeneralStats(s GeneralStats, label string) *models.TableDescriptor {
	return &models.TableDescriptor{
		Title:   "Statistiques de " + label,
		Headers: []string{headerMetric, headerValue},
		Rows: [][]string{
			{"Période", format.Date(s.Start) + " - " + format.Date(s.End)},
			{"Famille", s.Family},
			{label + " totale", format.Number(s.Stats.Sum) + tonnes},
			{headerEntries, format.Count(s.Stats.Count)},
			{"Moyenne", format.Number(s.Stats.Mean) + tonnes},
			{"Minimum", format.Number(s.Stats.Min) + tonnes},
			{"Maximum", format.Number(s.Stats.Max) + tonnes},
		},
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
