package pipeline

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/adelossa/pregame/internal/domain"
)

// classifier.go — convierte un RawMarket más su ParsedMatch en un MarketLeg.
//
// El orden de los tokens se preserva literal del origen: tokenA es siempre el
// primer token listado, sin renombrar por label. Los campos numéricos llegan
// como strings de la API; un valor malformado invalida el record completo
// (se salta, se loguea, el batch continúa).

// BuildLeg clasifica un mercado raw como leg de un partido ya parseado.
func BuildLeg(raw domain.RawMarket, parsed domain.ParsedMatch) (domain.MarketLeg, error) {
	outcomes, err := parsePair(raw.Outcomes)
	if err != nil {
		return domain.MarketLeg{}, fmt.Errorf("pipeline.BuildLeg: outcomes %q: %w", raw.Outcomes, err)
	}

	priceStrs, err := parsePair(raw.OutcomePrices)
	if err != nil {
		return domain.MarketLeg{}, fmt.Errorf("pipeline.BuildLeg: outcomePrices %q: %w", raw.OutcomePrices, err)
	}
	var prices [2]float64
	for i, s := range priceStrs {
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return domain.MarketLeg{}, fmt.Errorf("pipeline.BuildLeg: price %q: %w", s, err)
		}
		prices[i] = p
	}

	tokenIDs, err := parsePair(raw.ClobTokenIDs)
	if err != nil {
		return domain.MarketLeg{}, fmt.Errorf("pipeline.BuildLeg: clobTokenIds %q: %w", raw.ClobTokenIDs, err)
	}

	volume := 0.0
	if raw.Volume != "" {
		volume, err = strconv.ParseFloat(raw.Volume, 64)
		if err != nil {
			return domain.MarketLeg{}, fmt.Errorf("pipeline.BuildLeg: volume %q: %w", raw.Volume, err)
		}
	}

	return domain.MarketLeg{
		ConditionID: raw.ConditionID,
		QuestionID:  raw.QuestionID,
		Winner:      parsed.Winner,
		Loser:       parsed.Loser,
		IsDraw:      parsed.IsDraw,
		TokenA: domain.LegToken{
			ID:      tokenIDs[0],
			Outcome: outcomes[0],
			Price:   prices[0],
		},
		TokenB: domain.LegToken{
			ID:      tokenIDs[1],
			Outcome: outcomes[1],
			Price:   prices[1],
		},
		Volume:        volume,
		Closed:        raw.Closed,
		GameStartTime: raw.GameStartTime,
	}, nil
}

// parsePair decodifica un array literal JSON de exactamente dos strings.
func parsePair(literal string) ([2]string, error) {
	var items []string
	if err := json.Unmarshal([]byte(literal), &items); err != nil {
		return [2]string{}, err
	}
	if len(items) != 2 {
		return [2]string{}, fmt.Errorf("se esperaban 2 elementos, hay %d", len(items))
	}
	return [2]string{items[0], items[1]}, nil
}
