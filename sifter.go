// Package sifter is a terminal browser for json datasets, narrowing
// records with criteria built interactively.
package sifter

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	nt "sifter/entity"
	"sifter/store/web"
)

// Todo: remember recent locations

// ErrNoSource is returned when no source can serve a location.
var ErrNoSource = errors.New("no source for location")

// Source specifies a dataset loader.
type Source interface {
	// Name returns the name of the data last fetched
	Name() string
	// Fetch loads a dataset from location
	Fetch(ctx context.Context, location string) (result nt.Result, err error)
}

// Router fetches urls from Web and everything else from File.
type Router struct {
	Web  Source
	File Source

	last Source
	mu   sync.Mutex
}

func NewRouter(web, file Source) *Router {
	return &Router{
		Web:  web,
		File: file,
	}
}

// Name returns the name reported by the source last fetched from.
func (rtr *Router) Name() string {
	rtr.mu.Lock()
	defer rtr.mu.Unlock()

	if rtr.last == nil {
		return ""
	}
	return rtr.last.Name()
}

// Fetch loads location from the source it is routed to.
func (rtr *Router) Fetch(ctx context.Context, location string) (result nt.Result, err error) {

	source := rtr.File
	if web.IsURL(location) {
		source = rtr.Web
	}
	if source == nil {
		err = errors.Wrapf(ErrNoSource, "%q", location)
		return
	}

	result, err = source.Fetch(ctx, location)
	if err != nil {
		err = errors.Wrapf(err, "failed to fetch %s", location)
		return
	}

	rtr.mu.Lock()
	rtr.last = source
	rtr.mu.Unlock()
	return
}
