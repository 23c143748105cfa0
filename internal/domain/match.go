package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RawMarket es un mercado tal y como llega del fetcher, antes de clasificar.
// Los campos numéricos y los arrays vienen como strings literales de la API
// ("[\"Yes\", \"No\"]", "12345.67") — el parseo es responsabilidad del
// clasificador, no del adapter.
type RawMarket struct {
	ConditionID   string
	QuestionID    string
	Question      string
	Outcomes      string // array literal de dos outcomes
	OutcomePrices string // array literal de dos precios
	ClobTokenIDs  string // array literal de dos token ids
	Volume        string
	Closed        bool
	EndDateISO    string
	GameStartTime time.Time // enriquecido desde fuente secundaria; zero si falta
}

// ParsedMatch es el resultado de interpretar la pregunta de un mercado.
// Inmutable: se produce una vez por pregunta y se descarta tras plegar
// el leg en un MatchRecord.
type ParsedMatch struct {
	IsMatch bool
	Winner  string
	Loser   string
	IsDraw  bool // si es true, Winner/Loser son los dos equipos sin orden significativo
}

// LegToken es uno de los dos lados tradeables de un leg.
type LegToken struct {
	ID      string
	Outcome string
	Price   float64 // precio al cierre del fetch (mercados cerrados → resuelto)
}

// MarketLeg es un leg de mercado ya clasificado: un par de outcomes binario
// perteneciente a un partido real. Nunca se muta tras su creación.
type MarketLeg struct {
	ConditionID   string
	QuestionID    string
	Winner        string
	Loser         string
	IsDraw        bool
	TokenA        LegToken // primer token listado por la API — el orden se preserva
	TokenB        LegToken
	Volume        float64
	Closed        bool
	GameStartTime time.Time
}

// MatchKey identifica "el mismo partido real" entre legs: el par de equipos
// sin orden más el kickoff. Dos legs con el mismo par y la misma hora de
// inicio pertenecen al mismo MatchRecord aunque sus textos nombren a
// equipos distintos como "winner".
type MatchKey struct {
	Pair    string // par normalizado lexicográficamente: "menor|mayor"
	KickOff int64  // unix seconds UTC
}

// NewMatchKey construye la clave de join a partir de dos equipos y el kickoff.
// El par es un set: NewMatchKey(a, b, t) == NewMatchKey(b, a, t).
func NewMatchKey(teamA, teamB string, kickoff time.Time) MatchKey {
	lo, hi := teamA, teamB
	if strings.Compare(hi, lo) < 0 {
		lo, hi = hi, lo
	}
	return MatchKey{Pair: lo + "|" + hi, KickOff: kickoff.UTC().Unix()}
}

// matchNamespace es el namespace UUID fijo para derivar match ids.
var matchNamespace = uuid.MustParse("7a7ce5f2-06cd-4a8a-9b0a-2c54c24e1f1d")

// MatchID deriva un identificador estable del par de equipos (sin orden)
// y el kickoff. La misma tripleta produce siempre el mismo id.
func (k MatchKey) MatchID() string {
	return uuid.NewSHA1(matchNamespace, []byte(k.Pair+"|"+strconv.FormatInt(k.KickOff, 10))).String()
}

// RecordLeg es uno de los seis legs canónicos de un MatchRecord.
type RecordLeg struct {
	TokenID    string
	ClosePrice float64 // precio realizado (mercado resuelto)
	PrePrice   float64 // precio pre-partido muestreado
	HasPre     bool    // false = dato ausente, nunca cero por defecto
}

// MatchRecord son los seis legs canónicos de un partido, listos para el
// análisis de accuracy. Es la unidad que se persiste.
type MatchRecord struct {
	MatchID    string
	FirstTeam  string
	SecondTeam string
	KickOff    time.Time

	DrawYes      RecordLeg
	DrawNo       RecordLeg
	FirstWinYes  RecordLeg
	FirstWinNo   RecordLeg
	SecondWinYes RecordLeg
	SecondWinNo  RecordLeg
}

// Key devuelve la MatchKey del record.
func (r MatchRecord) Key() MatchKey {
	return NewMatchKey(r.FirstTeam, r.SecondTeam, r.KickOff)
}

// Legs devuelve los seis legs en orden canónico, con su nombre de columna.
// Útil para persistencia y para iterar al muestrear precios.
func (r *MatchRecord) Legs() []NamedLeg {
	return []NamedLeg{
		{"draw_yes", &r.DrawYes},
		{"draw_no", &r.DrawNo},
		{"first_win_yes", &r.FirstWinYes},
		{"first_win_no", &r.FirstWinNo},
		{"second_win_yes", &r.SecondWinYes},
		{"second_win_no", &r.SecondWinNo},
	}
}

// NamedLeg asocia un leg con su nombre canónico de columna.
type NamedLeg struct {
	Name string
	Leg  *RecordLeg
}
