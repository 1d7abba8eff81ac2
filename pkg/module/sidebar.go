package module

import "sort"

// SidebarItems derives the navigation tree.
func (r *Registry) SidebarItems() []SidebarItem {
	r.mu.RLock()
	modules := r.modules
	domainOrder := r.domainOrder
	domains := make(map[string]Domain, len(r.domains))
	for k, d := range r.domains {
		domains[k] = d
	}
	r.mu.RUnlock()

	perDomain := make(map[string][]SidebarItem)
	var top []SidebarItem
	for _, m := range modules {
		items := m.sidebarItems()
		if len(items) == 0 {
			continue
		}
		if m.domain == "" {
			top = append(top, items...)
			continue
		}
		if _, ok := domains[m.domain]; !ok {
			continue
		}
		perDomain[m.domain] = append(perDomain[m.domain], items...)
	}

	out := make([]SidebarItem, 0, len(domainOrder)+len(top))
	for _, key := range domainOrder {
		children := perDomain[key]
		if len(children) == 0 {
			continue
		}
		sortItems(children)
		d := domains[key]
		out = append(out, SidebarItem{
			Key:      d.Key,
			Label:    d.Label,
			Icon:     d.Icon,
			Order:    d.Order,
			Type:     ItemGroup,
			Children: children,
		})
	}
	out = append(out, top...)
	sortItems(out)
	return out
}

func (m *moduleEntry) sidebarItems() []SidebarItem {
	routes := m.records
	if m.own {
		routes = routes[1:]
	}

	var children []SidebarItem
	for _, rec := range routes {
		if rec.Sidebar == nil {
			continue
		}
		children = append(children, SidebarItem{
			Key:   rec.Key,
			Label: rec.Sidebar.Label,
			Icon:  rec.Sidebar.Icon,
			Order: rec.Sidebar.Order,
			Path:  rec.Path,
			Type:  ItemRoute,
		})
	}
	sortItems(children)

	if m.sidebar == nil {
		return children
	}
	item := SidebarItem{
		Key:      m.key,
		Label:    m.sidebar.Label,
		Icon:     m.sidebar.Icon,
		Order:    m.sidebar.Order,
		Type:     ItemModule,
		Children: children,
	}
	if m.own {
		item.Path = m.records[0].Path
	}
	return []SidebarItem{item}
}

func sortItems(items []SidebarItem) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })
}

// ActiveItem returns the first sidebar entry, in display order, whose route
// matches pathname, together with the key of its nearest enclosing module
// entry. Domain groups never count as a parent.
func (r *Registry) ActiveItem(pathname string) (Active, bool) {
	return r.findActive(r.SidebarItems(), pathname, "")
}

func (r *Registry) findActive(items []SidebarItem, pathname, parent string) (Active, bool) {
	for _, item := range items {
		if item.Path != "" {
			if rec, ok := r.Record(item.Key); ok && rec.Matcher.MatchString(pathname) {
				return Active{Key: item.Key, ParentKey: parent}, true
			}
		}
		if len(item.Children) == 0 {
			continue
		}
		next := item.Key
		if item.Type == ItemGroup {
			next = parent
		}
		if a, ok := r.findActive(item.Children, pathname, next); ok {
			return a, true
		}
	}
	return Active{}, false
}
