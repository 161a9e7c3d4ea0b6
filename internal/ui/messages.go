package ui

import (
	"robin/internal/domain"
	"robin/internal/pagination"
)

// reposLoadedMsg carries a repository page fetched for ticket
type reposLoadedMsg struct {
	ticket pagination.Ticket
	page   domain.Page[*domain.Repository]
	err    error
}

// teamsLoadedMsg carries a team page fetched for ticket
type teamsLoadedMsg struct {
	ticket pagination.Ticket
	page   domain.Page[*domain.Team]
	err    error
}

// pendingLoadedMsg carries the pending patches of one repository
type pendingLoadedMsg struct {
	ticket pagination.Ticket
	page   domain.Page[*domain.PendingPatch]
	err    error
}

// statsLoadedMsg carries the outcome of a stats query
type statsLoadedMsg struct {
	tag    uint64
	result *domain.QueryResult
	err    error
}

// notificationExpiredMsg fires when a notification's timer runs out
type notificationExpiredMsg struct {
	seq uint64
}

// pagerClosedMsg is sent when the external pager returns the terminal
type pagerClosedMsg struct {
	err error
}
