package pipeline

import (
	"log/slog"
	"sort"
	"time"

	"github.com/adelossa/pregame/internal/domain"
)

// collator.go — agrupa hasta seis legs que comparten (par de equipos, kickoff)
// en un MatchRecord.
//
// Cada leg no-empate se observa desde dos perspectivas: tal cual se reportó
// ("el equipo del campo winner gana") y con los roles invertidos. Así los
// legs "A gana a B" y "B pierde contra A" del mismo partido caen sobre una
// key común y se complementan: uno aporta los tokens first_win y el otro los
// second_win. El join es interno — un partido sin leg en alguno de los tres
// grupos (first, second, draw) no emite record; esa pérdida es aceptable
// porque significa que alguna variante del mercado nunca se listó.

// legRole etiqueta la vista de un leg dentro de la collación.
type legRole int

const (
	roleDraw legRole = iota
	roleFirstPerspective
	roleSecondPerspective
)

// viewKey es la key de join de una vista: par ordenado según la perspectiva
// más el kickoff. Las dos perspectivas del mismo leg producen keys opuestas.
type viewKey struct {
	first   string
	second  string
	kickoff int64
}

// legView es un leg etiquetado con su rol — la vista explícita que sustituye
// al renombrado de columnas del pipeline tabular original.
type legView struct {
	role legRole
	key  viewKey
	leg  domain.MarketLeg
}

// Collate agrupa los legs en MatchRecords. Nunca falla por legs ausentes;
// los duplicados por key se resuelven de forma determinista quedándose con
// la primera ocurrencia en orden de entrada. El equipo first_team del record
// es el que el leg de empate lista primero (orden de catálogo del parser),
// igual que en el dataset histórico.
func Collate(legs []domain.MarketLeg) []domain.MatchRecord {
	firsts := make(map[viewKey]domain.MarketLeg)
	seconds := make(map[viewKey]domain.MarketLeg)
	var draws []legView
	dropped := 0

	for _, leg := range legs {
		if leg.IsDraw {
			draws = append(draws, legView{role: roleDraw, key: keyOf(leg, false), leg: leg})
			continue
		}
		// Vista primera: winner/loser tal cual se reportaron.
		if k := keyOf(leg, false); !insertFirst(firsts, k, leg) {
			dropped++
		}
		// Vista segunda: roles invertidos, para que el leg complementario
		// del otro equipo caiga sobre la misma key ordenada.
		if k := keyOf(leg, true); !insertFirst(seconds, k, leg) {
			dropped++
		}
	}

	if dropped > 0 {
		slog.Debug("duplicate win/loss legs dropped, kept first occurrence", "count", dropped)
	}

	// Join interno de las tres vistas. Se itera sobre los draws en orden de
	// entrada; la MatchKey sin orden deduplica empates listados dos veces.
	emitted := make(map[domain.MatchKey]bool)
	var records []domain.MatchRecord

	for _, d := range draws {
		matchKey := domain.NewMatchKey(d.leg.Winner, d.leg.Loser, d.leg.GameStartTime)
		if emitted[matchKey] {
			continue
		}

		first, ok := firsts[d.key]
		if !ok {
			continue
		}
		second, ok := seconds[d.key]
		if !ok {
			continue
		}

		emitted[matchKey] = true
		records = append(records, buildRecord(matchKey, d.key, first, second, d.leg))
	}

	// Orden estable del output: por kickoff y después por par de equipos.
	sort.Slice(records, func(i, j int) bool {
		if !records[i].KickOff.Equal(records[j].KickOff) {
			return records[i].KickOff.Before(records[j].KickOff)
		}
		return records[i].FirstTeam+records[i].SecondTeam < records[j].FirstTeam+records[j].SecondTeam
	})

	return records
}

// keyOf devuelve la viewKey de un leg; swapped=true invierte la perspectiva.
func keyOf(leg domain.MarketLeg, swapped bool) viewKey {
	k := viewKey{
		first:   leg.Winner,
		second:  leg.Loser,
		kickoff: leg.GameStartTime.UTC().Unix(),
	}
	if swapped {
		k.first, k.second = k.second, k.first
	}
	return k
}

// insertFirst inserta el leg solo si la key no existe. Devuelve false si ya
// había uno (tie-break "primera ocurrencia gana").
func insertFirst(m map[viewKey]domain.MarketLeg, k viewKey, leg domain.MarketLeg) bool {
	if _, ok := m[k]; ok {
		return false
	}
	m[k] = leg
	return true
}

// buildRecord ensambla el MatchRecord desde los tres legs elegidos.
// first_team/second_team siguen el orden de la viewKey del empate.
func buildRecord(matchKey domain.MatchKey, k viewKey, first, second, draw domain.MarketLeg) domain.MatchRecord {
	return domain.MatchRecord{
		MatchID:    matchKey.MatchID(),
		FirstTeam:  k.first,
		SecondTeam: k.second,
		KickOff:    time.Unix(k.kickoff, 0).UTC(),

		FirstWinYes:  recordLeg(first.TokenA),
		FirstWinNo:   recordLeg(first.TokenB),
		SecondWinYes: recordLeg(second.TokenA),
		SecondWinNo:  recordLeg(second.TokenB),
		DrawYes:      recordLeg(draw.TokenA),
		DrawNo:       recordLeg(draw.TokenB),
	}
}

func recordLeg(t domain.LegToken) domain.RecordLeg {
	return domain.RecordLeg{TokenID: t.ID, ClosePrice: t.Price}
}
