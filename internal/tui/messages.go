package tui

import (
	"github.com/iadityasingh7/news/internal/news"
	"github.com/iadityasingh7/news/internal/notice"
	"github.com/iadityasingh7/news/internal/update"
)

// categoryLoadedMsg reports a finished LoadCategory or Reload.
type categoryLoadedMsg struct {
	category news.Category
	err      error
}

// moreLoadedMsg reports a finished LoadMore.
type moreLoadedMsg struct {
	category news.Category
	err      error
}

// categorySelectedMsg is delivered by the engine subscription.
type categorySelectedMsg struct {
	category news.Category
}

type noticeMsg struct {
	notice notice.Notice
}

type noticeExpiredMsg struct {
	seq int
}

type openFailedMsg struct {
	err error
}

type updateAvailableMsg struct {
	result *update.Result
}
