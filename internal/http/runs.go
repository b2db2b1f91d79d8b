package http

import (
	"errors"
	"net/http"

	"github.com/jmehdipour/points-claimer/internal/service/runs"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

func triggerRunHandler(svc *runs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := svc.Start()
		if err != nil {
			if errors.Is(err, runs.ErrRunInProgress) {
				return c.JSON(http.StatusConflict, map[string]string{"error": "run_in_progress"})
			}

			log.Errorf("start run failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "start failed"})
		}

		return c.JSON(http.StatusAccepted, map[string]any{
			"started": true,
			"run_id":  id,
		})
	}
}

func lastRunHandler(svc *runs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		rep, ok := svc.Last()
		if !ok {
			return c.JSON(http.StatusNotFound, map[string]any{
				"error":   "no_runs_yet",
				"running": svc.Running(),
			})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"running": svc.Running(),
			"report":  rep,
		})
	}
}
