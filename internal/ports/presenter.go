package ports

import (
	"github.com/mikey/mailguard/internal/core"
)

// Presenter is a View that can also show the demo cards
type Presenter interface {
	core.View

	// RenderDemo shows a demo analysis outside the detector page
	RenderDemo(view core.ResultView) error
}
