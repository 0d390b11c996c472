package api

import (
	"github.com/labstack/echo/v4"
	"github.com/masa23/crmmail/model"
)

func (s *Server) listAccounts(c echo.Context) error {
	accounts := []model.AccountSummary{}
	for _, a := range s.Accounts.ActiveAccounts() {
		accounts = append(accounts, a.Summary())
	}
	return c.JSON(200, accounts)
}
