package polymarket

// DTOs raw de las APIs de Polymarket. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// --- Gamma API ---

// gammaMarketsResponse es una página de GET /markets de Gamma.
type gammaMarketsResponse []gammaMarket

// gammaMarket es un mercado de Gamma. Los arrays (outcomes, precios, token
// ids) y el volumen llegan como strings literales — se pasan tal cual al
// dominio; el parseo numérico es del clasificador.
type gammaMarket struct {
	ID            string `json:"id"`
	ConditionID   string `json:"conditionId"`
	QuestionID    string `json:"questionID"`
	Question      string `json:"question"`
	Outcomes      string `json:"outcomes"`
	OutcomePrices string `json:"outcomePrices"`
	ClobTokenIDs  string `json:"clobTokenIds"`
	Volume        string `json:"volume"`
	EndDateISO    string `json:"endDateIso"`
	GameStartTime string `json:"gameStartTime"`
	Active        bool   `json:"active"`
	Closed        bool   `json:"closed"`
}

// --- CLOB API ---

// clobMarket es la respuesta de GET /markets/{condition_id}, la fuente
// secundaria de game_start_time.
type clobMarket struct {
	ConditionID   string `json:"condition_id"`
	QuestionID    string `json:"question_id"`
	Question      string `json:"question"`
	GameStartTime string `json:"game_start_time"`
	EndDateISO    string `json:"end_date_iso"`
	Closed        bool   `json:"closed"`
}

// historyResponse es la respuesta de GET /prices-history.
type historyResponse struct {
	History []historyPoint `json:"history"`
}

// historyPoint es una observación (t unix seconds, p precio).
type historyPoint struct {
	T int64   `json:"t"`
	P float64 `json:"p"`
}
