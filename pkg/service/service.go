// Package service orchestrates the stores, the API and the renderers for the
// command tree.
package service

import (
	"context"

	"github.com/hindiconfession/cli/pkg/adminsession"
	"github.com/hindiconfession/cli/pkg/api"
	"github.com/hindiconfession/cli/pkg/locale"
	"github.com/hindiconfession/cli/pkg/paginate"
	"github.com/hindiconfession/cli/pkg/prompter"
	"github.com/hindiconfession/cli/pkg/session"
)

// Deps is everything a service may need. One value is built by the
// application root and shared by all services.
type Deps struct {
	API      *api.API
	Session  *session.Store
	Admin    *adminsession.Store
	Locale   *locale.Resolver
	Prompter *prompter.Prompter
	PageSize int
	Prefetch bool
}

func (d *Deps) pageSize() int {
	if d.PageSize > 0 {
		return d.PageSize
	}
	return paginate.DefaultPageSize
}

func (d *Deps) prompter() *prompter.Prompter {
	if d.Prompter == nil {
		return prompter.Default()
	}
	return d.Prompter
}

// listFetcher adapts the API list call to the pagination engine.
func (d *Deps) listFetcher() paginate.Fetcher {
	return func(ctx context.Context, endpoint string, page, limit int) (paginate.RawPage, error) {
		list, err := d.API.FetchList(ctx, endpoint, page, limit)
		if err != nil {
			return paginate.RawPage{}, err
		}
		return paginate.RawPage{
			Items: list.Items,
			Pagination: paginate.Pagination{
				Total: list.Pagination.Total,
				Pages: list.Pagination.Pages,
				Limit: list.Pagination.Limit,
			},
		}, nil
	}
}
