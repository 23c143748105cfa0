package domain

import "math"

// accuracy.go — comparación predicho vs. realizado.
//
// Predicción: los precios pre-partido de los tres legs YES (first_win,
// second_win, draw) redondeados a 0/1. Realizado: los precios de cierre de
// esos mismos tokens (mercado resuelto → ~0 o ~1). Un partido cuenta como
// acierto solo si las tres predicciones coinciden con el resultado.

// AccuracyReport resume la comparación sobre un batch de records.
type AccuracyReport struct {
	Evaluated int     // records con los tres precios pre-partido presentes
	Skipped   int     // records con algún precio pre-partido ausente
	Correct   int     // records donde las tres predicciones aciertan
	Accuracy  float64 // Correct / Evaluated; 0 si no hay evaluables
}

// Evaluate calcula el accuracy del batch. Los records con datos ausentes se
// saltan, nunca se interpretan como precio cero.
func Evaluate(records []MatchRecord) AccuracyReport {
	var report AccuracyReport

	for i := range records {
		yesLegs := [3]RecordLeg{
			records[i].FirstWinYes,
			records[i].SecondWinYes,
			records[i].DrawYes,
		}

		complete := true
		for _, leg := range yesLegs {
			if !leg.HasPre {
				complete = false
				break
			}
		}
		if !complete {
			report.Skipped++
			continue
		}

		report.Evaluated++
		correct := true
		for _, leg := range yesLegs {
			if math.Round(leg.PrePrice) != math.Round(leg.ClosePrice) {
				correct = false
				break
			}
		}
		if correct {
			report.Correct++
		}
	}

	if report.Evaluated > 0 {
		report.Accuracy = float64(report.Correct) / float64(report.Evaluated)
	}
	return report
}
