package mana

// DeriveColors returns the union of the colors of every symbol in cost,
// in WUBRG order.
func DeriveColors(cost string) []Color {
	return colorsOf(Parse(cost))
}

// DeriveColorIdentity extends DeriveColors with the colors of any mana
// symbols written in rulesText, hybrid and phyrexian forms included.
func DeriveColorIdentity(cost, rulesText string) []Color {
	symbols := Parse(cost)
	symbols = append(symbols, Parse(rulesText)...)
	return colorsOf(symbols)
}

func colorsOf(symbols []Symbol) []Color {
	var all []Color
	for _, s := range symbols {
		all = append(all, s.Colors...)
	}
	return SortColors(all)
}
