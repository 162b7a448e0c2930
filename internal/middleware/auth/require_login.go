package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/voting_auth/internal/tokens"
)

func (g *Guard) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := g.authenticate(c, tokens.KindAccess); err != nil {
			return err
		}
		return next(c)
	}
}
