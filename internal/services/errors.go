package services

import "errors"

// Common service errors
var (
	ErrEmptyQuestion     = errors.New("la question est vide")
	ErrUnknownDomain     = errors.New("domaine inconnu")
	ErrNoTable           = errors.New("aucun tableau à exporter")
	ErrUnsupportedFormat = errors.New("format d'export non supporté")
)
