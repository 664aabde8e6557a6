package app

import (
	"database/sql"

	"github.com/teampulse/pulsebot/catalog"
	"github.com/teampulse/pulsebot/config"
	"github.com/teampulse/pulsebot/period"
	"github.com/teampulse/pulsebot/report"
	"github.com/teampulse/pulsebot/roster"
	"github.com/teampulse/pulsebot/session"
)

// App bundles the shared collaborators handed to the bot and the HTTP
// surface.
type App struct {
	*sql.DB
	config.Config

	Catalog  *catalog.Catalog
	Sessions *session.Engine
	Periods  *period.Registry
	Reports  *report.Service
	Admins   *roster.Roster
}
