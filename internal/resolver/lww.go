package resolver

import (
	"context"

	"github.com/iudanet/gophsync/internal/models"
)

// lastWriterWins выбирает сторону с большей версией, затем с большим LastModified.
// При полном равенстве выигрывает сервер.
type lastWriterWins struct{}

func (lastWriterWins) sealed()      {}
func (lastWriterWins) Kind() Kind   { return KindLastWriterWins }
func (lastWriterWins) Name() string { return KindLastWriterWins.String() }

func (r lastWriterWins) Resolve(_ context.Context, c *models.ConflictRecord) (*models.ResolutionResult, error) {
	localWins := c.Local.IsNewerThan(c.Server)

	reason := "server is newer"
	switch {
	case localWins:
		reason = "local is newer"
	case !c.Server.IsNewerThan(c.Local):
		reason = "tie, server preferred"
	}
	return side(c, localWins, r.Name(), sideResolution(localWins), reason)
}

// authoritative всегда выбирает заданную сторону
type authoritative struct {
	local bool
}

func (authoritative) sealed() {}

func (a authoritative) Kind() Kind {
	if a.local {
		return KindClientAuthoritative
	}
	return KindServerAuthoritative
}

func (a authoritative) Name() string { return a.Kind().String() }

func (a authoritative) Resolve(_ context.Context, c *models.ConflictRecord) (*models.ResolutionResult, error) {
	reason := "server is authoritative"
	if a.local {
		reason = "client is authoritative"
	}
	return side(c, a.local, a.Name(), sideResolution(a.local), reason)
}
