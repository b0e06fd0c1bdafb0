package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// KitItem is one entry of a kit's item list. The daemon never interprets
// items; they are carried through so the kits plugin can read them back.
type KitItem struct {
	Type      string          `json:"Type"`
	Command   string          `json:"Command"`
	ShortName string          `json:"ShortName"`
	Amount    int             `json:"Amount"`
	Blueprint int             `json:"Blueprint"`
	SkinID    uint64          `json:"SkinID"`
	Container string          `json:"Container"`
	Condition float64         `json:"Condition"`
	Chance    int             `json:"Chance"`
	Position  int             `json:"Position"`
	Image     string          `json:"Image"`
	Weapon    json.RawMessage `json:"Weapon,omitempty"`
	Content   json.RawMessage `json:"Content,omitempty"`
}

// Kit is a catalogue entry. Templates are authored by server staff;
// instances are derived from a template for exactly one player and use
// Amount as their remaining use count.
type Kit struct {
	Name        string    `json:"Name"`
	DisplayName string    `json:"Display Name"`
	Color       string    `json:"Color"`
	Permission  string    `json:"Permission"`
	Description string    `json:"Description"`
	Image       string    `json:"Image"`
	Hide        bool      `json:"Hide"`
	Amount      int       `json:"Amount"`
	Cooldown    float64   `json:"Cooldown"`
	WipeBlock   float64   `json:"Wipe Block"`
	Building    string    `json:"Building"`
	Items       []KitItem `json:"Items"`

	owner    PlayerID
	template string
}

// IsInstance reports whether the kit was derived for a single player.
func (k *Kit) IsInstance() bool { return k.owner != 0 }

// Owner returns the owning player of an instance, or zero for templates.
func (k *Kit) Owner() PlayerID { return k.owner }

// TemplateName returns the template an instance was derived from.
func (k *Kit) TemplateName() string { return k.template }

// InstanceName is the catalogue name of the instance of template owned by owner.
func InstanceName(template string, owner PlayerID) string {
	return template + "_" + owner.String()
}

// InstancePermission is the permission guarding an instance.
func InstancePermission(prefix, instanceName string) string {
	return prefix + ".playerkit." + instanceName
}

// InstanceSpec carries the values that differ between a template and its instance.
type InstanceSpec struct {
	Owner            PlayerID
	PermissionPrefix string
	Color            string
	Amount           int
}

// NewInstance builds a player instance from a template. Every field is set
// explicitly; the item list is shared with the template and must not be
// mutated through either kit.
func NewInstance(template *Kit, spec InstanceSpec) *Kit {
	name := InstanceName(template.Name, spec.Owner)
	return &Kit{
		Name:        name,
		DisplayName: template.DisplayName,
		Color:       spec.Color,
		Permission:  InstancePermission(spec.PermissionPrefix, name),
		Description: template.Description,
		Image:       template.Image,
		Hide:        template.Hide,
		Amount:      spec.Amount,
		Cooldown:    template.Cooldown,
		WipeBlock:   template.WipeBlock,
		Building:    template.Building,
		Items:       template.Items,

		owner:    spec.Owner,
		template: template.Name,
	}
}

// Catalogue is the full kit collection as persisted by the kits plugin.
// Templates and instances are interleaved.
type Catalogue struct {
	Kits []*Kit `json:"Kits"`
}

// NewCatalogue returns an empty catalogue.
func NewCatalogue() *Catalogue {
	return &Catalogue{Kits: []*Kit{}}
}

// Classify tags every kit whose permission lives under prefix and whose
// name ends in a numeric owner id as an instance. It runs once after load.
func (c *Catalogue) Classify(prefix string) {
	namespace := prefix + ".playerkit."
	for _, k := range c.Kits {
		k.owner, k.template = 0, ""
		if !strings.HasPrefix(k.Permission, namespace) {
			continue
		}
		idx := strings.LastIndexByte(k.Name, '_')
		if idx <= 0 || idx == len(k.Name)-1 {
			continue
		}
		owner, err := strconv.ParseUint(k.Name[idx+1:], 10, 64)
		if err != nil || owner == 0 {
			continue
		}
		k.owner = PlayerID(owner)
		k.template = k.Name[:idx]
	}
}

// Append adds kit to the end of the catalogue.
func (c *Catalogue) Append(kit *Kit) {
	c.Kits = append(c.Kits, kit)
}

// Len returns the number of kits.
func (c *Catalogue) Len() int { return len(c.Kits) }
