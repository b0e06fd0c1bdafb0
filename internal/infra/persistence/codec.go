package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spounge-ai/playerkits/internal/domain"
	app_errors "github.com/spounge-ai/playerkits/internal/errors"
)

// decodeCatalogue parses the kits plugin data layout ({"Kits":[...]}) and
// tags player instances. Empty input is an empty catalogue.
func decodeCatalogue(data []byte, permissionPrefix string) (*domain.Catalogue, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.NewCatalogue(), nil
	}

	var cat domain.Catalogue
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("%w: %v", app_errors.ErrCatalogueCorrupt, err)
	}
	if cat.Kits == nil {
		cat.Kits = []*domain.Kit{}
	}
	for i, k := range cat.Kits {
		if k == nil {
			return nil, fmt.Errorf("%w: null entry at index %d", app_errors.ErrCatalogueCorrupt, i)
		}
	}
	cat.Classify(permissionPrefix)
	return &cat, nil
}

func encodeCatalogue(cat *domain.Catalogue) ([]byte, error) {
	out := domain.Catalogue{Kits: make([]*domain.Kit, 0, cat.Len())}
	for _, k := range cat.Kits {
		if k.Items == nil {
			cp := *k
			cp.Items = []domain.KitItem{}
			k = &cp
		}
		out.Kits = append(out.Kits, k)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode kit catalogue: %w", err)
	}
	return data, nil
}

func encodeKit(k *domain.Kit) ([]byte, error) {
	if k.Items == nil {
		cp := *k
		cp.Items = []domain.KitItem{}
		k = &cp
	}
	return json.Marshal(k)
}

func decodeKit(data []byte) (*domain.Kit, error) {
	var k domain.Kit
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("%w: %v", app_errors.ErrCatalogueCorrupt, err)
	}
	return &k, nil
}
