// Package period resuelve el rango de fechas y las etiquetas de buckets de un
// período de análisis de ventas (día, semana, mes, año o rango personalizado).
package period

import (
	"fmt"
	"strings"
	"time"
)

// Kind tipo de período.
type Kind string

// Tipos de período. Custom solo se obtiene con fechas explícitas.
const (
	Day    Kind = "day"
	Week   Kind = "week"
	Month  Kind = "month"
	Year   Kind = "year"
	Custom Kind = "custom"
)

// WeekdayLabels etiquetas de la semana empezando en lunes.
var WeekdayLabels = []string{"Seg", "Ter", "Qua", "Qui", "Sex", "Sáb", "Dom"}

// MonthLabels abreviaturas de los meses en orden de calendario.
var MonthLabels = []string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// ParseKind interpreta el token recibido. Vacío, desconocido o "custom" sin fechas
// caen en Month; se aceptan los tokens en portugués (dia, semana, mes, ano).
func ParseKind(token string) Kind {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "day", "dia":
		return Day
	case "week", "semana":
		return Week
	case "month", "mes", "mês":
		return Month
	case "year", "ano":
		return Year
	default:
		return Month
	}
}

// Request parámetros de entrada. Reference, Start y End son fechas (se ignora la hora).
type Request struct {
	Kind      string
	Reference *time.Time
	Start     *time.Time
	End       *time.Time
}

// Range período resuelto. [From, To) es la ventana semiabierta en la zona horaria de trabajo;
// StartDate y EndDate son fechas inclusivas a medianoche.
type Range struct {
	Kind      Kind
	Reference time.Time
	StartDate time.Time
	EndDate   time.Time
	From      time.Time
	To        time.Time
	Labels    []string
}

// IsCustom indica si el rango vino de fechas explícitas.
func (r Range) IsCustom() bool { return r.Kind == Custom }

// Contains indica si t cae en la ventana [From, To).
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

// QueryEnd último instante incluido en la ventana (To - 1ns), para consultas BETWEEN.
func (r Range) QueryEnd() time.Time {
	return r.To.Add(-time.Nanosecond)
}

// BucketIndex devuelve el índice de etiqueta al que pertenece t, o -1 si no corresponde a ninguna.
func (r Range) BucketIndex(t time.Time) int {
	if t.IsZero() {
		return -1
	}
	local := t.In(r.From.Location())
	var idx int
	switch r.Kind {
	case Day:
		idx = local.Hour()
	case Week:
		idx = mondayOffset(local.Weekday())
	case Month:
		idx = local.Day() - 1
	case Year:
		idx = int(local.Month()) - 1
	case Custom:
		idx = daysBetween(r.StartDate, local)
	default:
		return -1
	}
	if idx < 0 || idx >= len(r.Labels) {
		return -1
	}
	return idx
}

// Resolve calcula el rango. today es el instante actual en la zona horaria de trabajo.
//
// Con Start y End se construye un rango personalizado (se intercambian si End < Start).
// Con solo una de las dos se usa el rango por defecto del tipo tomando esa fecha como referencia.
func Resolve(req Request, today time.Time) Range {
	loc := today.Location()
	kind := ParseKind(req.Kind)

	ref := dateIn(today, loc)
	if req.Reference != nil {
		ref = dateIn(*req.Reference, loc)
	}

	switch {
	case req.Start != nil && req.End != nil:
		return customRange(ref, dateIn(*req.Start, loc), dateIn(*req.End, loc))
	case req.Start != nil:
		return defaultRange(kind, dateIn(*req.Start, loc))
	case req.End != nil:
		return defaultRange(kind, dateIn(*req.End, loc))
	}
	return defaultRange(kind, ref)
}

func customRange(ref, start, end time.Time) Range {
	if end.Before(start) {
		start, end = end, start
	}
	total := daysBetween(start, end) + 1
	labels := make([]string, 0, total)
	for i := 0; i < total; i++ {
		labels = append(labels, start.AddDate(0, 0, i).Format("02/01"))
	}
	return Range{
		Kind:      Custom,
		Reference: ref,
		StartDate: start,
		EndDate:   end,
		From:      start,
		To:        end.AddDate(0, 0, 1),
		Labels:    labels,
	}
}

func defaultRange(kind Kind, ref time.Time) Range {
	var start, end time.Time
	var labels []string

	switch kind {
	case Day:
		start, end = ref, ref
		labels = make([]string, 24)
		for h := range labels {
			labels[h] = fmt.Sprintf("%02dh", h)
		}
	case Week:
		start = ref.AddDate(0, 0, -mondayOffset(ref.Weekday()))
		end = start.AddDate(0, 0, 6)
		labels = append([]string(nil), WeekdayLabels...)
	case Year:
		start = time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, ref.Location())
		end = time.Date(ref.Year(), time.December, 31, 0, 0, 0, 0, ref.Location())
		labels = append([]string(nil), MonthLabels...)
	case Month, Custom:
		start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		end = start.AddDate(0, 1, -1)
		labels = make([]string, end.Day())
		for i := range labels {
			labels[i] = fmt.Sprintf("%02d", i+1)
		}
		kind = Month
	}

	return Range{
		Kind:      kind,
		Reference: ref,
		StartDate: start,
		EndDate:   end,
		From:      start,
		To:        end.AddDate(0, 0, 1),
		Labels:    labels,
	}
}

// dateIn toma año/mes/día de t tal cual y arma la medianoche en loc.
func dateIn(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// mondayOffset días desde el lunes (lunes = 0, domingo = 6).
func mondayOffset(w time.Weekday) int {
	return (int(w) + 6) % 7
}

// daysBetween días de calendario entre las fechas de a y b (ignora horario de verano).
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
