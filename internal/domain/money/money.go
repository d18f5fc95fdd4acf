// Package money normaliza montos monetarios a 2 decimales (redondeo half-up).
//
// Todo agregado monetario se redondea en el punto donde se calcula, no al final,
// para que sumas repetidas no acumulen deriva.
package money

import "github.com/shopspring/decimal"

// Scale decimales de todo monto monetario.
const Scale = 2

var hundred = decimal.NewFromInt(100)

// Zero cero monetario con escala 2.
func Zero() decimal.Decimal {
	return decimal.Zero.Round(Scale)
}

// Round redondea a 2 decimales. decimal.Round aleja el 5 del cero,
// que para montos positivos es half-up.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Sum suma y redondea.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return Round(total)
}

// Times multiplica un precio por una cantidad entera y redondea (subtotal de línea).
func Times(price decimal.Decimal, qty int) decimal.Decimal {
	return Round(price.Mul(decimal.NewFromInt(int64(qty))))
}

// Percent calcula base * pct / 100 redondeado a 2 decimales.
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).DivRound(hundred, Scale)
}

// Ratio calcula num * 100 / den redondeado a places decimales; 0 si den es cero.
func Ratio(num, den decimal.Decimal, places int32) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero.Round(places)
	}
	return num.Mul(hundred).DivRound(den, places)
}

// Average divide total entre n redondeando a 2 decimales; 0 si n es cero.
func Average(total decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return Zero()
	}
	return total.DivRound(decimal.NewFromInt(int64(n)), Scale)
}
