package migrations

import (
	"encoding/json"

	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		jsonData := `{
			"id": "pbc_1687431684",
			"name": "events",
			"type": "base",
			"system": false,
			"listRule": "",
			"viewRule": "",
			"createRule": null,
			"updateRule": null,
			"deleteRule": null,
			"fields": [
				{
					"id": "text3208210256",
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
					"id": "text1579384326",
					"name": "name",
					"type": "text",
					"required": true
				},
				{
					"id": "text1843675174",
					"name": "description",
					"type": "text",
					"required": false
				},
				{
					"id": "text3707150017",
					"name": "location",
					"type": "text",
					"required": false
				},
				{
					"id": "date2862495610",
					"name": "date",
					"type": "date",
					"required": false
				},
				{
					"id": "number2392944706",
					"name": "total_tickets",
					"type": "number",
					"required": true,
					"min": 1,
					"onlyInt": true
				},
				{
					"id": "number3632866850",
					"name": "available_tickets",
					"type": "number",
					"required": false,
					"min": 0,
					"onlyInt": true
				},
				{
					"id": "number3402113753",
					"name": "price",
					"type": "number",
					"required": false,
					"min": 0
				},
				{
					"id": "relation3545646658",
					"name": "owner",
					"type": "relation",
					"required": false,
					"collectionId": "_pb_users_auth_",
					"cascadeDelete": false,
					"maxSelect": 1
				},
				{
					"id": "autodate2990389176",
					"name": "created",
					"type": "autodate",
					"onCreate": true,
					"onUpdate": false
				},
				{
					"id": "autodate3332085495",
					"name": "updated",
					"type": "autodate",
					"onCreate": true,
					"onUpdate": true
				}
			],
			"indexes": []
		}`

		collection := &core.Collection{}
		if err := json.Unmarshal([]byte(jsonData), collection); err != nil {
			return err
		}

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("pbc_1687431684")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
