package apitest

import (
	"context"

	"github.com/petadoption/webclient/internal/models"
)

type statistics struct {
	store *store
}

func (s *statistics) Dashboard(ctx context.Context) (models.StatsBreakdown, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	petStatus := s.petsByStatus()
	appStatus := s.applicationsByStatus()
	return models.StatsBreakdown{
		"pets": map[string]int{
			"total":     len(s.store.pets),
			"available": petStatus[string(models.StatusAvailable)],
			"adopted":   petStatus[string(models.StatusAdopted)],
		},
		"applications": map[string]int{
			"total":    len(s.store.apps),
			"pending":  appStatus[string(models.StatusPending)],
			"approved": appStatus[string(models.StatusApproved)],
			"rejected": appStatus[string(models.StatusRejected)],
		},
		"users": map[string]int{
			"total": len(s.store.users),
		},
	}, nil
}

func (s *statistics) Pets(ctx context.Context) (models.StatsBreakdown, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	bySpecies := make(map[string]int)
	for _, pet := range s.store.pets {
		bySpecies[pet.Species]++
	}
	return models.StatsBreakdown{
		"total":     len(s.store.pets),
		"bySpecies": bySpecies,
		"byStatus":  s.petsByStatus(),
	}, nil
}

func (s *statistics) Applications(ctx context.Context) (models.StatsBreakdown, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	return models.StatsBreakdown{
		"total":    len(s.store.apps),
		"byStatus": s.applicationsByStatus(),
	}, nil
}

func (s *statistics) Users(ctx context.Context) (models.StatsBreakdown, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	byRole := make(map[string]int)
	for _, rec := range s.store.users {
		byRole[rec.user.Role]++
	}
	return models.StatsBreakdown{
		"total":  len(s.store.users),
		"byRole": byRole,
	}, nil
}

func (s *statistics) petsByStatus() map[string]int {
	counts := make(map[string]int)
	for _, pet := range s.store.pets {
		counts[string(pet.Status.Normalize())]++
	}
	return counts
}

func (s *statistics) applicationsByStatus() map[string]int {
	counts := make(map[string]int)
	for _, app := range s.store.apps {
		counts[string(app.Status.Normalize())]++
	}
	return counts
}
