package service

import "github.com/spounge-ai/playerkits/internal/domain"

// Resolver finds templates and player instances in a loaded catalogue.
type Resolver struct{}

// FindTemplate returns the template named name. Instances never match.
func (Resolver) FindTemplate(cat *domain.Catalogue, name string) (*domain.Kit, bool) {
	for _, k := range cat.Kits {
		if !k.IsInstance() && k.Name == name {
			return k, true
		}
	}
	return nil, false
}

// FindInstance returns the first instance of template owned by owner.
func (Resolver) FindInstance(cat *domain.Catalogue, template string, owner domain.PlayerID) (*domain.Kit, bool) {
	name := domain.InstanceName(template, owner)
	for _, k := range cat.Kits {
		if k.IsInstance() && k.Name == name {
			return k, true
		}
	}
	return nil, false
}
