package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	stationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Station",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.String},
			"name": &graphql.Field{Type: graphql.String},
		},
	})

	timetableType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Timetable",
		Fields: graphql.Fields{
			"first_departure":  &graphql.Field{Type: graphql.String},
			"last_departure":   &graphql.Field{Type: graphql.String},
			"interval_minutes": &graphql.Field{Type: graphql.Int},
		},
	})

	lineType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Line",
		Fields: graphql.Fields{
			"id":                  &graphql.Field{Type: graphql.String},
			"name":                &graphql.Field{Type: graphql.String},
			"type":                &graphql.Field{Type: graphql.String},
			"station_ids":         &graphql.Field{Type: graphql.NewList(graphql.String)},
			"color":               &graphql.Field{Type: graphql.String},
			"base_fare":           &graphql.Field{Type: graphql.Float},
			"extra_fare_per_stop": &graphql.Field{Type: graphql.Float},
			"timetable":           &graphql.Field{Type: timetableType},
		},
	})

	legType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Leg",
		Fields: graphql.Fields{
			"id":                &graphql.Field{Type: graphql.String},
			"line_id":           &graphql.Field{Type: graphql.String},
			"line_name":         &graphql.Field{Type: graphql.String},
			"from_station_id":   &graphql.Field{Type: graphql.String},
			"to_station_id":     &graphql.Field{Type: graphql.String},
			"duration_minutes":  &graphql.Field{Type: graphql.Int},
			"stop_count":        &graphql.Field{Type: graphql.Int},
			"base_fare":         &graphql.Field{Type: graphql.Float},
			"transfer_discount": &graphql.Field{Type: graphql.Float},
			"final_fare":        &graphql.Field{Type: graphql.Float},
		},
	})

	pricingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Pricing",
		Fields: graphql.Fields{
			"subtotal":            &graphql.Field{Type: graphql.Float},
			"transfer_discount":   &graphql.Field{Type: graphql.Float},
			"coupon_discount":     &graphql.Field{Type: graphql.Float},
			"total_discount":      &graphql.Field{Type: graphql.Float},
			"total_before_coupon": &graphql.Field{Type: graphql.Float},
			"final_total":         &graphql.Field{Type: graphql.Float},
		},
	})

	itineraryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Itinerary",
		Fields: graphql.Fields{
			"id":                     &graphql.Field{Type: graphql.String},
			"legs":                   &graphql.Field{Type: graphql.NewList(legType)},
			"total_duration_minutes": &graphql.Field{Type: graphql.Int},
			"transfer_count":         &graphql.Field{Type: graphql.Int},
			"tags":                   &graphql.Field{Type: graphql.NewList(graphql.String)},
			"pricing":                &graphql.Field{Type: pricingType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"stations": &graphql.Field{
				Type:        graphql.NewList(stationType),
				Description: "List all stations",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					byID := deps.Network.Stations()
					stations := make([]interface{}, 0, len(byID))
					for _, line := range deps.Network.Lines() {
						for _, id := range line.StationIDs {
							if s, ok := byID[id]; ok {
								stations = append(stations, s)
								delete(byID, id)
							}
						}
					}
					for _, s := range byID {
						stations = append(stations, s)
					}
					return stations, nil
				},
			},
			"lines": &graphql.Field{
				Type:        graphql.NewList(lineType),
				Description: "List all bus lines",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Network.Lines(), nil
				},
			},
			"line": &graphql.Field{
				Type:        lineType,
				Description: "Get a line by id",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					line, ok := deps.Network.Line(p.Args["id"].(string))
					if !ok {
						return nil, nil
					}
					return line, nil
				},
			},
			"searchItineraries": &graphql.Field{
				Type:        graphql.NewList(itineraryType),
				Description: "Search itineraries between two stations",
				Args: graphql.FieldConfigArgument{
					"from": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"to":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					from := p.Args["from"].(string)
					to := p.Args["to"].(string)
					return deps.Search.Search(p.Context, from, to)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
