package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/capacitahr/capacita/core"
)

var (
	pageParam  = "page"
	limitParam = "limit"
)

// bindPage reads ?page=&limit= into a normalized core.Page; absent or
// malformed values fall back to the defaults.
func bindPage(ctx echo.Context) core.Page {
	page, _ := strconv.Atoi(ctx.QueryParam(pageParam))
	limit, _ := strconv.Atoi(ctx.QueryParam(limitParam))
	return core.NewPage(page, limit)
}
