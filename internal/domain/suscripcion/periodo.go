package suscripcion

import "time"

// Periodo de facturación de un plan.
type Periodo string

const (
	PeriodoMensual    Periodo = "MENSUAL"
	PeriodoTrimestral Periodo = "TRIMESTRAL"
	PeriodoSemestral  Periodo = "SEMESTRAL"
	PeriodoAnual      Periodo = "ANUAL"
	PeriodoBienal     Periodo = "BIENAL"
	PeriodoTrienal    Periodo = "TRIENAL"
)

// SumarPeriodo calcula la fecha de fin a partir de una fecha de inicio y el
// periodo del plan. Un periodo no reconocido suma un mes.
func SumarPeriodo(inicio time.Time, p Periodo) time.Time {
	switch p {
	case PeriodoMensual:
		return inicio.AddDate(0, 1, 0)
	case PeriodoTrimestral:
		return inicio.AddDate(0, 3, 0)
	case PeriodoSemestral:
		return inicio.AddDate(0, 6, 0)
	case PeriodoAnual:
		return inicio.AddDate(1, 0, 0)
	case PeriodoBienal:
		return inicio.AddDate(2, 0, 0)
	case PeriodoTrienal:
		return inicio.AddDate(3, 0, 0)
	default:
		return inicio.AddDate(0, 1, 0)
	}
}
