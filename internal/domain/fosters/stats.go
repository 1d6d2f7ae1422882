package fosters

// RecordCompletion actualiza el promedio rodante de duración del perfil
// cuando un placement llega a estado terminal.
//
// Media incremental: n = TotalPlacements ya incluye el placement recién
// completado, porque TotalPlacements se incrementa al crear el placement,
// no al completarlo. Si los placements se completan fuera del orden de
// creación, el denominador cuenta también los que siguen activos; es el
// comportamiento contratado (limitación conocida, ver DESIGN.md).
//
// durationDays ya viene flooreado en 0 por el ledger.
func RecordCompletion(p *Profile, durationDays int) {
	if p == nil {
		return
	}

	d := float64(durationDays)
	if p.AvgDurationDays == nil {
		p.AvgDurationDays = &d
		return
	}

	n := p.TotalPlacements
	if n < 1 {
		n = 1
	}
	avg := ((*p.AvgDurationDays)*float64(n-1) + d) / float64(n)
	p.AvgDurationDays = &avg
}

// SuccessRate devuelve adopciones exitosas / placements totales.
// Sin placements => 0.
func SuccessRate(p Profile) float64 {
	if p.TotalPlacements <= 0 {
		return 0
	}
	return float64(p.SuccessfulAdoptions) / float64(p.TotalPlacements)
}
