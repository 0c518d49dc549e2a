package migrations

import (
	"encoding/json"

	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		jsonData := `{
			"id": "pbc_2442746124",
			"name": "bookings",
			"type": "base",
			"system": false,
			"listRule": "user = @request.auth.id",
			"viewRule": "user = @request.auth.id",
			"createRule": null,
			"updateRule": null,
			"deleteRule": null,
			"fields": [
				{
					"id": "text3208210257",
					"name": "id",
					"type": "text",
					"system": true,
					"required": true,
					"primaryKey": true,
					"autogeneratePattern": "[a-z0-9]{15}",
					"pattern": "^[a-z0-9]+$",
					"min": 15,
					"max": 15
				},
				{
					"id": "relation1001261735",
					"name": "event",
					"type": "relation",
					"required": true,
					"collectionId": "pbc_1687431684",
					"cascadeDelete": false,
					"maxSelect": 1
				},
				{
					"id": "relation2375276105",
					"name": "user",
					"type": "relation",
					"required": false,
					"collectionId": "_pb_users_auth_",
					"cascadeDelete": false,
					"maxSelect": 1
				},
				{
					"id": "text1721920909",
					"name": "guest_name",
					"type": "text",
					"required": false
				},
				{
					"id": "email3885137012",
					"name": "guest_email",
					"type": "email",
					"required": false
				},
				{
					"id": "select2063623452",
					"name": "status",
					"type": "select",
					"required": true,
					"maxSelect": 1,
					"values": ["pending", "confirmed", "paid", "cancelled"]
				},
				{
					"id": "text2899685933",
					"name": "reference",
					"type": "text",
					"required": false
				},
				{
					"id": "text3725765462",
					"name": "payment_ref",
					"type": "text",
					"required": false
				},
				{
					"id": "autodate2990389177",
					"name": "created",
					"type": "autodate",
					"onCreate": true,
					"onUpdate": false
				},
				{
					"id": "autodate3332085496",
					"name": "updated",
					"type": "autodate",
					"onCreate": true,
					"onUpdate": true
				}
			],
			"indexes": [
				"CREATE INDEX idx_bookings_event ON bookings (event)",
				"CREATE INDEX idx_bookings_user ON bookings (user)"
			]
		}`

		collection := &core.Collection{}
		if err := json.Unmarshal([]byte(jsonData), collection); err != nil {
			return err
		}

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("pbc_2442746124")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
