package period_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampliart/ampliart-api/internal/domain/period"
)

var saoPaulo = mustLoad("America/Sao_Paulo")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, saoPaulo)
}

func ptr(t time.Time) *time.Time { return &t }

var now = time.Date(2024, time.June, 12, 15, 30, 0, 0, saoPaulo)

func TestResolve_MesBisiesto(t *testing.T) {
	r := period.Resolve(period.Request{Kind: "month", Reference: ptr(date(2024, time.February, 10))}, now)

	assert.Equal(t, period.Month, r.Kind)
	assert.Equal(t, date(2024, time.February, 1), r.StartDate)
	assert.Equal(t, date(2024, time.February, 29), r.EndDate)
	assert.Equal(t, date(2024, time.March, 1), r.To)
	require.Len(t, r.Labels, 29)
	assert.Equal(t, "01", r.Labels[0])
	assert.Equal(t, "29", r.Labels[28])
}

func TestResolve_Dia(t *testing.T) {
	r := period.Resolve(period.Request{Kind: "day", Reference: ptr(date(2024, time.March, 5))}, now)

	assert.Equal(t, period.Day, r.Kind)
	assert.Equal(t, date(2024, time.March, 5), r.From)
	assert.Equal(t, date(2024, time.March, 6), r.To)
	require.Len(t, r.Labels, 24)
	assert.Equal(t, "00h", r.Labels[0])
	assert.Equal(t, "23h", r.Labels[23])
}

func TestResolve_SemanaEmpiezaLunes(t *testing.T) {
	// 2024-03-10 es domingo
	r := period.Resolve(period.Request{Kind: "week", Reference: ptr(date(2024, time.March, 10))}, now)

	assert.Equal(t, date(2024, time.March, 4), r.StartDate)
	assert.Equal(t, date(2024, time.March, 10), r.EndDate)
	assert.Equal(t, period.WeekdayLabels, r.Labels)
}

func TestResolve_Anio(t *testing.T) {
	r := period.Resolve(period.Request{Kind: "ano", Reference: ptr(date(2023, time.July, 20))}, now)

	assert.Equal(t, period.Year, r.Kind)
	assert.Equal(t, date(2023, time.January, 1), r.StartDate)
	assert.Equal(t, date(2023, time.December, 31), r.EndDate)
	assert.Len(t, r.Labels, 12)
	assert.Equal(t, "Dez", r.Labels[11])
}

func TestResolve_PersonalizadoIntercambiaFechas(t *testing.T) {
	r := period.Resolve(period.Request{
		Start: ptr(date(2024, time.March, 5)),
		End:   ptr(date(2024, time.March, 1)),
	}, now)

	assert.Equal(t, period.Custom, r.Kind)
	assert.True(t, r.IsCustom())
	assert.Equal(t, date(2024, time.March, 1), r.StartDate)
	assert.Equal(t, date(2024, time.March, 5), r.EndDate)
	assert.Equal(t, date(2024, time.March, 6), r.To)
	assert.Equal(t, []string{"01/03", "02/03", "03/03", "04/03", "05/03"}, r.Labels)
}

func TestResolve_UnaSolaFechaUsaRangoPorDefecto(t *testing.T) {
	r := period.Resolve(period.Request{Kind: "week", Start: ptr(date(2024, time.March, 6))}, now)

	assert.Equal(t, period.Week, r.Kind)
	assert.Equal(t, date(2024, time.March, 4), r.StartDate)
	assert.Equal(t, date(2024, time.March, 10), r.EndDate)
}

func TestResolve_TipoInvalidoCaeEnMes(t *testing.T) {
	for _, token := range []string{"", "quincena", "custom", "personalizado"} {
		r := period.Resolve(period.Request{Kind: token}, now)
		assert.Equal(t, period.Month, r.Kind, "token %q", token)
		assert.Equal(t, date(2024, time.June, 1), r.StartDate)
		assert.Len(t, r.Labels, 30)
	}
}

func TestBucketIndex(t *testing.T) {
	week := period.Resolve(period.Request{Kind: "week", Reference: ptr(date(2024, time.March, 6))}, now)
	assert.Equal(t, 0, week.BucketIndex(time.Date(2024, time.March, 4, 10, 0, 0, 0, saoPaulo)))
	assert.Equal(t, 6, week.BucketIndex(time.Date(2024, time.March, 10, 23, 59, 0, 0, saoPaulo)))

	day := period.Resolve(period.Request{Kind: "day", Reference: ptr(date(2024, time.March, 6))}, now)
	assert.Equal(t, 14, day.BucketIndex(time.Date(2024, time.March, 6, 14, 5, 0, 0, saoPaulo)))

	custom := period.Resolve(period.Request{Start: ptr(date(2024, time.March, 1)), End: ptr(date(2024, time.March, 3))}, now)
	assert.Equal(t, 2, custom.BucketIndex(time.Date(2024, time.March, 3, 8, 0, 0, 0, saoPaulo)))
	assert.Equal(t, -1, custom.BucketIndex(time.Date(2024, time.March, 4, 8, 0, 0, 0, saoPaulo)))
	assert.Equal(t, -1, custom.BucketIndex(time.Time{}))
}

func TestContains_VentanaSemiabierta(t *testing.T) {
	r := period.Resolve(period.Request{Kind: "day", Reference: ptr(date(2024, time.March, 6))}, now)
	assert.True(t, r.Contains(date(2024, time.March, 6)))
	assert.True(t, r.Contains(r.QueryEnd()))
	assert.False(t, r.Contains(date(2024, time.March, 7)))
}
