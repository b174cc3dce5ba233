package core

import (
	"sgas/internal/entitymodel"
	"sgas/pkg/domain"
)

// resolve turns requested references into stored ids. Strict targets must
// already exist; lookup targets are matched by id, then by display value, and
// created when neither matches.
func (s *Service) resolve(tx Transaction, e domain.Entity, refs map[string][]entitymodel.Reference) (map[string][]string, error) {
	catalog := s.store.Catalog()
	links := make(map[string][]string, len(refs))
	for _, r := range e.Relations {
		requested := refs[r.Storage]
		if len(requested) == 0 {
			continue
		}
		target, _ := catalog.Entity(r.Target)
		ids := make([]string, 0, len(requested))
		for _, ref := range requested {
			id, err := resolveOne(tx, target, ref)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		links[r.Storage] = ids
	}
	return links, nil
}

func resolveOne(tx Transaction, target domain.Entity, ref entitymodel.Reference) (string, error) {
	if ref.ID != "" {
		if _, ok := tx.Find(target.Type, ref.ID); ok {
			return ref.ID, nil
		}
	}
	if !target.Lookup {
		id := ref.ID
		if id == "" {
			id = ref.Display
		}
		return "", domain.ErrNotFound{Entity: target.Type, ID: id}
	}
	display := ref.Display
	if display == "" {
		display = ref.ID
	}
	if existing, ok := tx.FindBy(target.Type, target.DisplayField, display); ok {
		return existing.ID, nil
	}
	rec := domain.NewRecord()
	if ref.KeepID {
		rec.ID = ref.ID
	}
	rec.Fields[target.DisplayField] = display
	created, err := tx.Create(target.Type, rec)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}
