package check

import (
	"errors"
	"io/fs"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"
)

// RobotsRules answers whether page URLs are allowed by the site's own
// robots.txt. A missing or unparsable file allows everything.
type RobotsRules struct {
	fsys      fs.FS
	file      string
	userAgent string
	log       logrus.FieldLogger

	once sync.Once
	data *robotstxt.RobotsData
}

// NewRobotsRules creates RobotsRules for the robots file at file in fsys.
func NewRobotsRules(fsys fs.FS, file, userAgent string, log logrus.FieldLogger) *RobotsRules {
	if userAgent == "" {
		userAgent = "*"
	}
	return &RobotsRules{fsys: fsys, file: file, userAgent: userAgent, log: log}
}

func (r *RobotsRules) load() {
	if r.file == "" {
		return
	}
	raw, err := fs.ReadFile(r.fsys, r.file)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.log.WithError(err).Warn("Failed to read robots.txt. Assuming allow all.")
		}
		return
	}
	data, err := robotstxt.FromBytes(raw)
	if err != nil {
		r.log.WithError(err).Warn("Failed to parse robots.txt. Assuming allow all.")
		return
	}
	r.data = data
}

// Present reports whether a robots file was read and parsed.
func (r *RobotsRules) Present() bool {
	r.once.Do(r.load)
	return r.data != nil
}

// IsAllowed checks if the given URL path is allowed.
func (r *RobotsRules) IsAllowed(urlPath string) bool {
	r.once.Do(r.load)
	if r.data == nil {
		return true
	}
	return r.data.FindGroup(r.userAgent).Test(urlPath)
}
