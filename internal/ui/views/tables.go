package views

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"robin/internal/domain"
)

const titleWidth = 48

// Truncate shortens s to width terminal cells
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

func (s *Styles) table(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Dim).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			return s.TableCell
		})
}

// RepositoryTable renders a page of repositories
func (s *Styles) RepositoryTable(repos []*domain.Repository) string {
	t := s.table("ID", "REPOSITORY ID", "NAME")
	for _, r := range repos {
		t.Row(strconv.Itoa(r.ID), strconv.Itoa(r.RepositoryID), Truncate(r.Name, titleWidth))
	}
	return t.Render()
}

// TeamTable renders a page of teams
func (s *Styles) TeamTable(teams []*domain.Team) string {
	t := s.table("CODE", "NAME", "MEMBERS")
	for _, tm := range teams {
		t.Row(tm.TeamCode, Truncate(tm.TeamName, titleWidth), strconv.Itoa(len(tm.Members)))
	}
	return t.Render()
}

// PendingTable renders pending patches
func (s *Styles) PendingTable(patches []*domain.PendingPatch) string {
	t := s.table("#", "TITLE", "AUTHOR", "REVIEWS", "PENDING", "IDLE")
	for _, p := range patches {
		t.Row(
			strconv.Itoa(p.PatchNumber),
			Truncate(p.PatchTitle, titleWidth),
			p.Author,
			strconv.Itoa(p.Reviews),
			days(p.TotalPending),
			days(p.LastUpdated),
		)
	}
	return t.Render()
}

// PatchTable renders closed patches from a stats result
func (s *Styles) PatchTable(patches []*domain.ClosedPatch) string {
	t := s.table("#", "TITLE", "AUTHOR", "MERGED", "+/-", "FILES", "CLOSED")
	for _, p := range patches {
		merged := "no"
		if p.PullMerged {
			merged = "yes"
		}
		t.Row(
			strconv.Itoa(p.PatchNumber),
			Truncate(p.PatchTitle, titleWidth),
			p.Author,
			merged,
			"+"+strconv.Itoa(p.Additions)+"/-"+strconv.Itoa(p.Deletions),
			strconv.Itoa(p.ChangedFiles),
			p.ClosedAt,
		)
	}
	return t.Render()
}

func days(n int) string {
	return strconv.Itoa(n) + "d"
}
