package matching

import (
	"fmt"
	"strings"

	"animal-rescue-ops/internal/domain/animals"
	"animal-rescue-ops/internal/domain/fosters"
)

// Vocabularios fijos que marcan necesidades especiales en la descripción
// interna del animal. Matching case-insensitive por substring.
var (
	medicalKeywords    = []string{"special", "medication", "chronic", "treatment"}
	behavioralKeywords = []string{"aggressive", "anxious", "fearful", "training needed"}
)

func needsMedical(a animals.Animal) bool {
	return containsAny(a.DescriptionInternal, medicalKeywords)
}

func needsBehavioral(a animals.Animal) bool {
	return containsAny(a.DescriptionInternal, behavioralKeywords)
}

func containsAny(text string, keywords []string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Score calcula el puntaje de un perfil para un animal. Suma de señales
// independientes; cada señal que aporta deja una razón legible, en el
// mismo orden en que se evalúa. Sin efectos secundarios.
func Score(a animals.Animal, p fosters.Profile) (int, []string) {
	score := 0
	reasons := make([]string, 0, 8)

	// Capacidad disponible
	if p.HasFreeSlot() {
		score += 20
		reasons = append(reasons, "Has available capacity")
	}

	// Preferencia de especie
	if p.PrefersSpecies(a.Species) {
		score += 30
		reasons = append(reasons, fmt.Sprintf("Prefers %s", a.Species))
	}

	// Necesidades especiales vs capacidades del perfil
	if needsMedical(a) {
		if p.CanHandleMedical {
			score += 25
			reasons = append(reasons, "Can handle medical needs")
		} else {
			score -= 20
			reasons = append(reasons, "Animal needs medical care")
		}
	}

	if needsBehavioral(a) {
		if p.CanHandleBehavioral {
			score += 25
			reasons = append(reasons, "Can handle behavioral issues")
		} else {
			score -= 20
			reasons = append(reasons, "Animal needs behavioral support")
		}
	}

	// Experiencia
	switch p.ExperienceLevel {
	case fosters.ExperienceAdvanced:
		score += 15
		reasons = append(reasons, "Experienced foster")
	case fosters.ExperienceIntermediate:
		score += 10
		reasons = append(reasons, "Intermediate experience")
	}

	// Track record (solo con historial)
	if p.TotalPlacements > 0 {
		rate := fosters.SuccessRate(p)
		if rate > 0.8 {
			score += 20
			reasons = append(reasons, fmt.Sprintf("High success rate (%.0f%%)", rate*100))
		} else if rate > 0.5 {
			score += 10
			reasons = append(reasons, fmt.Sprintf("Good success rate (%.0f%%)", rate*100))
		}
	}

	// Rating
	if p.Rating != nil {
		if *p.Rating >= 4.5 {
			score += 15
			reasons = append(reasons, fmt.Sprintf("Highly rated (%.1f)", *p.Rating))
		} else if *p.Rating >= 4.0 {
			score += 10
			reasons = append(reasons, fmt.Sprintf("Well rated (%.1f)", *p.Rating))
		}
	}

	// Balanceo de carga: preferir perfiles menos cargados
	if p.MaxCapacity > 0 {
		ratio := float64(p.CurrentCapacity) / float64(p.MaxCapacity)
		if p.CurrentCapacity == 0 {
			score += 15
			reasons = append(reasons, "No current fosters")
		} else if ratio < 0.5 {
			score += 10
			reasons = append(reasons, "Low current load")
		}
	}

	// Verificaciones
	if p.BackgroundCheckStatus == "approved" {
		score += 10
		reasons = append(reasons, "Background check approved")
	}
	if p.ReferencesChecked {
		score += 5
		reasons = append(reasons, "References verified")
	}

	return score, reasons
}
