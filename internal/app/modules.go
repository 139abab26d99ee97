package app

import (
	"github.com/dirigo/dirigent/internal/handlers"
	"github.com/dirigo/dirigent/modules/builtin"
	"github.com/dirigo/dirigent/modules/print"
)

// coreModules is the definitive list of all handler modules that are
// compiled into the dirigent binary.
var coreModules = []handlers.Module{
	&builtin.Module{},
	&print.Module{},
}
