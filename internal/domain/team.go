package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog mapea nombres canónicos de equipos a sus alias de texto.
// Se inyecta en el parser — nunca es un global — para poder testear con
// catálogos sintéticos y soportar otras ligas en el futuro.
//
// El orden de los equipos importa: cuando una pregunta es un empate, el
// equipo que el catálogo lista primero acaba como first_team del record.
// El catálogo EPL embebido conserva el orden del dataset histórico para
// que los ids y columnas salgan idénticos entre reruns.
type Catalog struct {
	teams map[string][]string // canónico → aliases
	order []string            // canónicos en orden de catálogo
}

// TeamEntry es un equipo del catálogo con sus aliases, en orden.
type TeamEntry struct {
	Name    string
	Aliases []string
}

// AliasMatch es un alias encontrado dentro de un texto.
type AliasMatch struct {
	Team   string // nombre canónico
	Alias  string // alias que apareció en el texto
	Offset int    // posición del alias en el texto (byte offset, lowercase)
}

// NewCatalog construye un Catalog preservando el orden de las entries.
func NewCatalog(entries []TeamEntry) *Catalog {
	c := &Catalog{teams: make(map[string][]string, len(entries))}
	for _, e := range entries {
		if _, ok := c.teams[e.Name]; ok {
			continue // entrada repetida: la primera gana
		}
		c.teams[e.Name] = append([]string(nil), e.Aliases...)
		c.order = append(c.order, e.Name)
	}
	return c
}

// NewCatalogFromMap construye un Catalog desde un mapping sin orden
// (p. ej. un archivo YAML); el orden de catálogo es el alfabético de los
// nombres canónicos, para que al menos sea determinista.
func NewCatalogFromMap(teams map[string][]string) *Catalog {
	names := make([]string, 0, len(teams))
	for name := range teams {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]TeamEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, TeamEntry{Name: name, Aliases: teams[name]})
	}
	return NewCatalog(entries)
}

// Teams devuelve los nombres canónicos en orden de catálogo.
func (c *Catalog) Teams() []string {
	return append([]string(nil), c.order...)
}

// Aliases devuelve los aliases del equipo dado (nil si no existe).
func (c *Catalog) Aliases(team string) []string {
	return c.teams[team]
}

// ResolveAliases busca todos los equipos cuyos aliases aparecen como
// substring (case-insensitive, exacto — sin fuzzy) dentro del texto.
// Devuelve como máximo un match por equipo — el primer alias de su lista
// que aparezca — en orden de catálogo. El offset es la posición del alias
// en el texto.
func (c *Catalog) ResolveAliases(text string) []AliasMatch {
	lower := strings.ToLower(text)

	var found []AliasMatch
	for _, team := range c.order {
		for _, alias := range c.teams[team] {
			idx := strings.Index(lower, strings.ToLower(alias))
			if idx < 0 {
				continue
			}
			found = append(found, AliasMatch{Team: team, Alias: alias, Offset: idx})
			break
		}
	}
	return found
}

// Validate comprueba la invariante de configuración: ningún alias puede
// pertenecer a dos equipos distintos. Una colisión produce MatchKeys
// silenciosamente incorrectos, así que es el único fallo que abortamos
// ruidosamente al arrancar.
func (c *Catalog) Validate() error {
	seen := make(map[string]string) // alias lowercase → canónico
	for _, team := range c.order {
		for _, alias := range c.teams[team] {
			key := strings.ToLower(alias)
			if other, ok := seen[key]; ok && other != team {
				return fmt.Errorf("domain.Catalog: alias %q compartido entre %q y %q", alias, other, team)
			}
			seen[key] = team
		}
	}
	return nil
}

// PremierLeague devuelve el catálogo EPL por defecto, con los alias y
// abreviaturas habituales (incluye el typo "Liecester" que aparece en
// preguntas históricas reales). El orden es el del dataset original.
func PremierLeague() *Catalog {
	return NewCatalog([]TeamEntry{
		{"Arsenal", []string{"Arsenal"}},
		{"Aston Villa", []string{"Aston Villa"}},
		{"Bournemouth", []string{"Bournemouth"}},
		{"Brentford", []string{"Brentford"}},
		{"Brighton & Hove Albion", []string{"Brighton", "Brighton & Hove Albion"}},
		{"Burnley", []string{"Burnley"}},
		{"Chelsea", []string{"Chelsea"}},
		{"Crystal Palace", []string{"Crystal Palace"}},
		{"Everton", []string{"Everton"}},
		{"Fulham", []string{"Fulham"}},
		{"Leeds United", []string{"Leeds", "Leeds United"}},
		{"Leicester City", []string{"Leicester", "Liecester", "Leicester City"}},
		{"Liverpool", []string{"Liverpool"}},
		{"Luton Town", []string{"Luton Town"}},
		{"Manchester City", []string{"Man City", "Manchester City"}},
		{"Manchester United", []string{"Man United", "Manchester United", "Manchester Utd"}},
		{"Newcastle United", []string{"Newcastle", "Newcastle United"}},
		{"Norwich City", []string{"Norwich", "Norwich City"}},
		{"Nottingham Forest", []string{"Nottingham Forest", "Forest"}},
		{"Sheffield United", []string{"Sheffield United", "Sheffield"}},
		{"Southampton", []string{"Southampton"}},
		{"Tottenham Hotspur", []string{"Tottenham", "Spurs", "Tottenham Hotspur"}},
		{"Watford", []string{"Watford"}},
		{"Ipswich Town", []string{"Ipswich Town", "Ipswich"}},
		{"West Bromwich Albion", []string{"West Brom", "West Bromwich Albion"}},
		{"West Ham United", []string{"West Ham", "West Ham United"}},
		{"Wolverhampton Wanderers", []string{"Wolves", "Wolverhampton Wanderers", "Wolverhampton"}},
	})
}
