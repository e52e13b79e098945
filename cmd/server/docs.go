package main

// @title Smart Inventory API
// @version 1.0
// @description Stock ledger and alert engine: items, categories, an immutable transaction ledger, derived stock alerts and order fulfillment
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/tair/smart-inventory
// @contact.email support@example.com

// @license.name MIT
// @license.url https://github.com/tair/smart-inventory/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Items
// @tag.description Item catalog and stock verification endpoints

// @tag.name Categories
// @tag.description Category management endpoints

// @tag.name Transactions
// @tag.description Stock ledger endpoints

// @tag.name Alerts
// @tag.description Stock alert endpoints

// @tag.name Orders
// @tag.description Order lifecycle endpoints

// @tag.name Users
// @tag.description Service account management endpoints

// @tag.name Health
// @tag.description Health check endpoints

// @tag.name Swagger
// @tag.description Swagger documentation endpoints
