package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgHomeLoaded
	MsgPageLoaded
	MsgSearchTick
	MsgSearchResults
	MsgDetailLoaded
	MsgListToggled
)

type homeLoaded struct {
	result *tasks.HomeResult
	err    error
}

type pageLoaded struct {
	title string
	page  models.Page
}

type searchResults struct {
	seq   uint64
	query string
	page  models.Page
}

type detailLoaded struct {
	movie models.Movie
	err   error
}

type listToggled struct {
	list  models.ListName
	title string
	on    bool
	err   error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// homeLoadedMsg is the constructor for [MsgHomeLoaded]
func homeLoadedMsg(result *tasks.HomeResult, err error) Msg {
	return Msg{kind: MsgHomeLoaded, data: homeLoaded{result, err}}
}

// pageLoadedMsg is the constructor for [MsgPageLoaded]
func pageLoadedMsg(title string, page models.Page) Msg {
	return Msg{kind: MsgPageLoaded, data: pageLoaded{title, page}}
}

// searchTickMsg is the constructor for [MsgSearchTick]
func searchTickMsg(seq uint64) Msg {
	return Msg{kind: MsgSearchTick, data: seq}
}

// searchResultsMsg is the constructor for [MsgSearchResults]
func searchResultsMsg(seq uint64, query string, page models.Page) Msg {
	return Msg{kind: MsgSearchResults, data: searchResults{seq, query, page}}
}

// detailLoadedMsg is the constructor for [MsgDetailLoaded]
func detailLoadedMsg(movie models.Movie, err error) Msg {
	return Msg{kind: MsgDetailLoaded, data: detailLoaded{movie, err}}
}

// listToggledMsg is the constructor for [MsgListToggled]
func listToggledMsg(list models.ListName, title string, on bool, err error) Msg {
	return Msg{kind: MsgListToggled, data: listToggled{list, title, on, err}}
}
