package service

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/dermadesk/dermadesk/internal/database/repository"
)

// SearchService ranks patients against a free-text query so assistants can
// find someone despite typos in the name.
type SearchService struct {
	Users *repository.UserRepo
}

// PatientMatch pairs a patient with its similarity score in [0, 1].
type PatientMatch struct {
	Patient repository.User
	Score   float64
}

// matchThreshold drops results too far from the query to be useful.
const matchThreshold = 0.35

// Patients returns patients ranked by similarity to query, best first. An
// empty query returns everyone in name order, score 1.
func (s *SearchService) Patients(ctx context.Context, query string) ([]PatientMatch, error) {
	patients, err := s.Users.List(ctx, repository.UserFilters{Role: repository.RolePatient})
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]PatientMatch, 0, len(patients))
		for _, p := range patients {
			out = append(out, PatientMatch{Patient: p, Score: 1})
		}
		return out, nil
	}

	var out []PatientMatch
	for _, p := range patients {
		score := nameSimilarity(query, p.FullName)
		if score < matchThreshold {
			continue
		}
		out = append(out, PatientMatch{Patient: p, Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

// nameSimilarity scores query against the full name and each name token,
// keeping the best. Substring hits score high so a partial name beats a
// near-miss on edit distance.
func nameSimilarity(query, name string) float64 {
	name = strings.ToLower(name)
	if strings.Contains(name, query) {
		return 0.95 + 0.05*float64(len(query))/float64(len(name))
	}
	best := similarity(query, name)
	for _, token := range strings.Fields(name) {
		if s := similarity(query, token); s > best {
			best = s
		}
	}
	return best
}

func similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
