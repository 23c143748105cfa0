package pipeline

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/adelossa/pregame/internal/domain"
)

// parser.go — extracción de partidos desde el texto de las preguntas.
//
// Política deliberadamente de alta precisión y bajo recall: cualquier
// pregunta que no encaje exactamente (patrón de outcome + exactamente dos
// equipos del catálogo) se descarta en silencio. Los casi-aciertos se
// detectan aparte con IsLikelyMatchBySimpleRule y se reportan como warnings
// de auditoría, nunca se autocorrigen.

// outcomePattern reúne los indicadores de outcome reconocidos.
// Un texto sin ninguno de ellos no es un partido.
var outcomePattern = regexp.MustCompile(`(?i)` +
	`(\bwin\b.*\bvs\b)` +
	`|(\bbeat\b)` +
	`|(\bdefeat\b)` +
	`|(\bwin\b.*\bagainst\b)` +
	`|(\blose\b.*\bto\b)` +
	`|(\bdraw\b)` +
	`|(\bend in a draw\b)` +
	`|(\btie\b)` +
	`|(\bend in a tie\b)`)

// Parser convierte preguntas de mercados en ParsedMatch usando un catálogo
// de equipos inyectado.
type Parser struct {
	catalog *domain.Catalog
}

// NewParser crea un Parser sobre el catálogo dado.
func NewParser(catalog *domain.Catalog) *Parser {
	return &Parser{catalog: catalog}
}

// ExtractMatchDetails decide si el texto describe un partido y extrae
// (winner, loser, isDraw). Devuelve IsMatch=false si:
//   - ningún patrón de outcome aparece en el texto, o
//   - el texto no resuelve a exactamente dos equipos del catálogo.
func (p *Parser) ExtractMatchDetails(text string) domain.ParsedMatch {
	if !outcomePattern.MatchString(text) {
		return domain.ParsedMatch{}
	}

	found := p.catalog.ResolveAliases(text)
	if len(found) != 2 {
		return domain.ParsedMatch{}
	}

	lower := strings.ToLower(text)

	// Empate: los campos winner/loser llevan los dos equipos en orden de
	// catálogo, sin significado de orden.
	if strings.Contains(lower, "draw") || strings.Contains(lower, "tie") {
		return domain.ParsedMatch{
			IsMatch: true,
			Winner:  found[0].Team,
			Loser:   found[1].Team,
			IsDraw:  true,
		}
	}

	switch {
	case strings.Contains(lower, "win") || strings.Contains(lower, "beat") || strings.Contains(lower, "defeat"):
		winner, loser := pickByPosition(found[0], found[1])
		return domain.ParsedMatch{IsMatch: true, Winner: winner, Loser: loser}

	case strings.Contains(lower, "lose"):
		loser, winner := pickByPosition(found[0], found[1])
		return domain.ParsedMatch{IsMatch: true, Winner: winner, Loser: loser}
	}

	// Pasó el patrón de outcome pero no hay verbo que ordene winner/loser.
	// Anomalía de parseo: la reportamos y descartamos la pregunta.
	slog.Warn("parse anomaly: outcome pattern without verb cue", "question", text)
	return domain.ParsedMatch{}
}

// pickByPosition es la política posicional de desempate: el equipo cuyo
// alias aparece antes en el texto es el sujeto del verbo (gana con
// "win/beat/defeat", pierde con "lose"). Es una heurística frágil pero el
// análisis de accuracy depende de reproducirla exactamente — está aislada
// aquí para poder sustituirla sin tocar el resto del parser.
func pickByPosition(a, b domain.AliasMatch) (subject, object string) {
	if a.Offset < b.Offset {
		return a.Team, b.Team
	}
	return b.Team, a.Team
}

// IsLikelyMatchBySimpleRule es la heurística ligera de auditoría: nombre
// canónico de equipo presente (case-sensitive) más "vs" o "beat". Las
// preguntas que pasan esta regla pero fallaron el parseo estricto son
// posibles falsos negativos y se listan para revisión manual.
func (p *Parser) IsLikelyMatchBySimpleRule(text string) bool {
	hasTeam := false
	for _, team := range p.catalog.Teams() {
		if strings.Contains(text, team) {
			hasTeam = true
			break
		}
	}
	return hasTeam && (strings.Contains(text, "vs") || strings.Contains(text, "beat"))
}
