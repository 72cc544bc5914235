package fixture

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/five82/ebs/internal/catalog"
)

// NewServer returns an echo instance serving f.
func NewServer(f Fixtures, logger *slog.Logger) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetOutput(io.Discard)
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	e.GET(catalog.PreviousSearchesPath, previousSearchesHandler(f))
	e.GET(catalog.SearchPath, searchHandler(f))
	return e
}

func previousSearchesHandler(f Fixtures) echo.HandlerFunc {
	return func(c echo.Context) error {
		searches := f.PreviousSearches
		if raw := c.QueryParam("message_limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 0 {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid message_limit")
			}
			if limit < len(searches) {
				searches = searches[:limit]
			}
		}
		if searches == nil {
			searches = []catalog.PreviousSearch{}
		}
		return c.JSON(http.StatusOK, catalog.SearchListResponse{PreviousSearches: searches})
	}
}

func searchHandler(f Fixtures) echo.HandlerFunc {
	return func(c echo.Context) error {
		kind, err := catalog.ParseSearchKind(c.QueryParam("search_type"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		query := c.QueryParam("search")
		if f.fails(query) {
			return echo.NewHTTPError(http.StatusInternalServerError, "fixture failure")
		}
		beers := f.Match(query, kind)
		if beers == nil {
			beers = []catalog.Beer{}
		}
		return c.JSON(http.StatusOK, catalog.SearchResponse{Beers: beers})
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.Debug("fixture request",
				slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				slog.String("path", c.Request().URL.Path),
				slog.String("query", c.Request().URL.RawQuery),
				slog.Int("status", c.Response().Status),
			)
			return nil
		}
	}
}
