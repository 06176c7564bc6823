// Package serving exposes a session to renderers over HTTP.
package serving

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"

	routing "github.com/jackwhelpton/fasthttp-routing/v2"
	"github.com/kcz17/reactiontime/controller"
	"github.com/kcz17/reactiontime/histogram"
	"github.com/kcz17/reactiontime/sharing"
	"github.com/kcz17/reactiontime/stats"
	"github.com/valyala/fasthttp"
	"gonum.org/v1/plot/vg"
)

const histogramImageSize = 4 * vg.Inch

type APIServer struct {
	Controller *controller.SessionController
	// Clock timestamps responses on receipt.
	Clock controller.Clock

	server *fasthttp.Server
}

func NewAPIServer(sessionController *controller.SessionController, clock controller.Clock) *APIServer {
	a := &APIServer{Controller: sessionController, Clock: clock}
	a.server = &fasthttp.Server{
		Handler:         a.Router().HandleRequest,
		CloseOnShutdown: true,
	}
	return a
}

func (a *APIServer) ListenAndServe(addr string) error {
	return a.server.ListenAndServe(addr)
}

func (a *APIServer) Serve(ln net.Listener) error {
	return a.server.Serve(ln)
}

// Shutdown stops accepting connections and waits for open requests to
// complete. ListenAndServe and Serve then return nil.
func (a *APIServer) Shutdown() error {
	return a.server.Shutdown()
}

func (a *APIServer) Router() *routing.Router {
	router := routing.New()

	router.Post("/toggle", a.toggleStartHandler())
	router.Post("/respond", a.respondHandler())

	router.Get("/state", a.stateHandler())
	router.Get("/histogram", a.histogramHandler())
	router.Get("/histogram.png", a.histogramImageHandler())

	router.Get("/share", a.shareHandler())
	router.Post("/load", a.loadHandler())
	router.Post("/compare", a.compareHandler())

	return router
}

// addressRequest is the body of requests carrying a share address.
type addressRequest struct {
	URL string `json:"url"`
}

func (a *APIServer) toggleStartHandler() routing.Handler {
	return func(c *routing.Context) error {
		a.Controller.ToggleStart()
		return writeJSON(c, a.Controller.View())
	}
}

func (a *APIServer) respondHandler() routing.Handler {
	return func(c *routing.Context) error {
		response := a.Controller.Respond(a.Clock.Now())
		return writeJSON(c, &response)
	}
}

func (a *APIServer) stateHandler() routing.Handler {
	return func(c *routing.Context) error {
		return writeJSON(c, a.Controller.View())
	}
}

func (a *APIServer) histogramHandler() routing.Handler {
	return func(c *routing.Context) error {
		return writeJSON(c, histogram.Build(a.Controller.SharedState().Reactions))
	}
}

func (a *APIServer) histogramImageHandler() routing.Handler {
	return func(c *routing.Context) error {
		bins := histogram.Build(a.Controller.SharedState().Reactions)
		png, err := histogram.RenderPNG(bins, histogramImageSize, histogramImageSize)
		if errors.Is(err, histogram.ErrNoBins) {
			return routing.NewHTTPError(http.StatusNotFound, "no reactions recorded")
		} else if err != nil {
			return fmt.Errorf("could not render histogram: err = %w", err)
		}

		c.SetContentType("image/png")
		return c.Write(png)
	}
}

func (a *APIServer) shareHandler() routing.Handler {
	return func(c *routing.Context) error {
		response := &struct {
			ShareURL *string `json:"shareUrl"`
		}{}
		if shareURL, ok := a.Controller.ShareURL(); ok {
			response.ShareURL = &shareURL
		}
		return writeJSON(c, response)
	}
}

// loadHandler seeds the session from a share address. A corrupt token still
// resets the session to empty before the failure is reported.
func (a *APIServer) loadHandler() routing.Handler {
	return func(c *routing.Context) error {
		address, err := readAddress(c)
		if err != nil {
			return err
		}

		state, decodeErr := sharing.Decode(address)
		if state == nil {
			state = &sharing.SharedState{Reactions: []float64{}}
		}
		if err := a.Controller.Hydrate(state); errors.Is(err, controller.ErrSessionRunning) {
			return routing.NewHTTPError(http.StatusConflict, "stop the session before loading results")
		} else if err != nil {
			return fmt.Errorf("could not load session: err = %w", err)
		}

		if decodeErr != nil {
			log.Printf("could not decode shared session: err = %v", decodeErr)
			return routing.NewHTTPError(http.StatusBadRequest, decodeErr.Error())
		}
		return writeJSON(c, a.Controller.View())
	}
}

// compareHandler tests whether the session's reactions come from a
// different distribution to those of a share address.
func (a *APIServer) compareHandler() routing.Handler {
	return func(c *routing.Context) error {
		address, err := readAddress(c)
		if err != nil {
			return err
		}

		shared, err := sharing.Decode(address)
		if err != nil {
			return routing.NewHTTPError(http.StatusBadRequest, err.Error())
		} else if shared == nil {
			return routing.NewHTTPError(http.StatusBadRequest, "address has no shared reactions")
		}

		current := a.Controller.SharedState()
		result, err := stats.KolmogorovSmirnovTest(shared.Reactions, current.Reactions, stats.P95)
		if errors.Is(err, stats.ErrEmptySample) {
			return routing.NewHTTPError(http.StatusBadRequest, "both sessions need at least one reaction")
		} else if err != nil {
			return fmt.Errorf("could not compare sessions: err = %w", err)
		}

		return writeJSON(c, &struct {
			Shared  *stats.Summary                 `json:"shared"`
			Current *stats.Summary                 `json:"current"`
			Test    *stats.KolmogorovSmirnovResult `json:"test"`
		}{
			Shared:  stats.Summarize(shared.Reactions),
			Current: stats.Summarize(current.Reactions),
			Test:    result,
		})
	}
}

func readAddress(c *routing.Context) (string, error) {
	var request addressRequest
	if err := json.Unmarshal(c.PostBody(), &request); err != nil {
		return "", routing.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("could not parse body: %v", err))
	}
	return request.URL, nil
}

func writeJSON(c *routing.Context, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not marshal response: err = %w", err)
	}
	c.SetContentType("application/json")
	return c.Write(b)
}
