package handlers

import (
	"time"

	"github.com/SoonerRobotics/SusScope/internal/protocol"
	"github.com/SoonerRobotics/SusScope/internal/session"
	"github.com/SoonerRobotics/SusScope/internal/startup"
	"github.com/SoonerRobotics/SusScope/internal/transcoder"
)

type Handlers struct {
	session    *session.Session
	transcoder *transcoder.Transcoder
	media      *protocol.Handler
	logMember  string
	startTime  time.Time
}

func New(sess *session.Session, trans *transcoder.Transcoder, media *protocol.Handler, config *startup.Config) *Handlers {
	return &Handlers{
		session:    sess,
		transcoder: trans,
		media:      media,
		logMember:  config.LogMember,
		startTime:  time.Now(),
	}
}
