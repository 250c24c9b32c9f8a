package entity

import (
	"fmt"
	"sort"
)

// QuoteFamily agregado de todas las versiones de un mismo negocio, ordenadas por Version.
type QuoteFamily struct {
	RootID   string
	Versions []Quote
}

// NewQuoteFamily arma la familia a partir de sus versiones (en cualquier orden).
func NewQuoteFamily(versions []Quote) (*QuoteFamily, error) {
	if len(versions) == 0 {
		return nil, fmt.Errorf("familia de cotización vacía")
	}
	root := versions[0].RootID()
	sorted := make([]Quote, 0, len(versions))
	for _, v := range versions {
		if v.RootID() != root {
			return nil, fmt.Errorf("la versión %s no pertenece a la familia %s", v.ID, root)
		}
		sorted = append(sorted, v.Clone())
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })
	return &QuoteFamily{RootID: root, Versions: sorted}, nil
}

// Latest versión vigente (la de mayor Version).
func (f *QuoteFamily) Latest() Quote {
	return f.Versions[len(f.Versions)-1]
}

// IsLive informa si id es la versión vigente; solo esa puede convertirse en factura.
func (f *QuoteFamily) IsLive(id string) bool {
	return f.Latest().ID == id
}

// Converted versión ya convertida en factura, si existe.
func (f *QuoteFamily) Converted() (Quote, bool) {
	for _, v := range f.Versions {
		if v.ConvertedInvoiceID != "" {
			return v, true
		}
	}
	return Quote{}, false
}

// Effective versión que representa al negocio en los reportes: la convertida en factura;
// si no hay, la última aprobada; si tampoco, la vigente.
func (f *QuoteFamily) Effective() Quote {
	if v, ok := f.Converted(); ok {
		return v
	}
	for i := len(f.Versions) - 1; i >= 0; i-- {
		if f.Versions[i].Status == QuoteStatusApproved {
			return f.Versions[i]
		}
	}
	return f.Latest()
}

// AppendRevision agrega q como nueva versión: Version = última+1, ParentQuoteID = raíz.
func (f *QuoteFamily) AppendRevision(q Quote) Quote {
	rev := q.Clone()
	rev.Version = f.Latest().Version + 1
	rev.ParentQuoteID = f.RootID
	f.Versions = append(f.Versions, rev)
	return rev
}

// GroupFamilies agrupa una lista plana de versiones en familias, ordenadas por id raíz.
func GroupFamilies(quotes []Quote) []*QuoteFamily {
	byRoot := make(map[string][]Quote)
	var roots []string
	for _, q := range quotes {
		r := q.RootID()
		if _, ok := byRoot[r]; !ok {
			roots = append(roots, r)
		}
		byRoot[r] = append(byRoot[r], q)
	}
	sort.Strings(roots)
	out := make([]*QuoteFamily, 0, len(roots))
	for _, r := range roots {
		fam, err := NewQuoteFamily(byRoot[r])
		if err != nil {
			continue
		}
		out = append(out, fam)
	}
	return out
}
