package app

import (
	"context"
)

// VerifyDocumentAsAdmin authenticates the caller's bearer credential and
// records the document decision under the extracted admin identity.
func (app *Application) VerifyDocumentAsAdmin(ctx context.Context, bearerToken string, customerID, documentID int64, status, remarks string) error {
	admin, err := app.AdminAuth.FromBearerToken(bearerToken)
	if err != nil {
		return err
	}

	return app.Engine.VerifyDocument(ctx, customerID, documentID, status, remarks, admin.Username, admin.ID)
}

// SetCustomerStatusAsAdmin authenticates the caller's bearer credential and
// forces the customer's aggregate status.
func (app *Application) SetCustomerStatusAsAdmin(ctx context.Context, bearerToken string, customerID int64, status string) error {
	if _, err := app.AdminAuth.FromBearerToken(bearerToken); err != nil {
		return err
	}

	return app.Engine.SetCustomerStatus(ctx, customerID, status)
}
