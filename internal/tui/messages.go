package tui

type changedMsg struct{}

type syncDoneMsg struct {
	err error
}

type deletedMsg struct {
	title string
	err   error
}
