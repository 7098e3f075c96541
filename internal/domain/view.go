// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

// View names a filter predicate applied to the catalog before ranking.
type View string

// The five catalog views.
const (
	ViewInstalled View = "installed"
	ViewAvailable View = "available"
	ViewFlatpak   View = "flatpak"
	ViewAUR       View = "aur"
	ViewAll       View = "all"
)

// Views lists every view in presentation order.
func Views() []View {
	return []View{ViewInstalled, ViewAvailable, ViewFlatpak, ViewAUR, ViewAll}
}

// IsValid reports whether v names a known view.
func (v View) IsValid() bool {
	switch v {
	case ViewInstalled, ViewAvailable, ViewFlatpak, ViewAUR, ViewAll:
		return true
	default:
		return false
	}
}

// Matches reports whether a record belongs to the view's candidate
// subset. AUR shows uninstalled candidates too, since AUR search
// results include packages not yet on the system.
func (v View) Matches(rec PackageRecord) bool {
	switch v {
	case ViewInstalled:
		return rec.Installed && rec.SourceKind == SourcePacman
	case ViewFlatpak:
		return rec.Installed && rec.SourceKind == SourceFlatpak
	case ViewAUR:
		return rec.SourceKind == SourceAUR
	case ViewAvailable:
		return !rec.Installed
	case ViewAll:
		return true
	default:
		return false
	}
}
