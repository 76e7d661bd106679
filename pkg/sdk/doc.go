// Package vocabdex provides an embeddable Go client for the award
// vocabulary. It wires the same services as the vocabdex server
// in-process: records live in PostgreSQL (or memory) and are mirrored
// into a Redis Search index (or memory) for search and suggest.
//
//	client, _ := vocabdex.New(ctx,
//	    vocabdex.WithPostgres("postgres://localhost/vocabdex?sslmode=disable"),
//	    vocabdex.WithRedis("localhost:6379", ""),
//	)
//	defer client.Close()
//
//	_, _ = client.Funders().Create(ctx, vocabdex.Funder{ID: "00k4n6c32", Name: "European Commission"})
//	a, _ := client.Awards().Create(ctx, vocabdex.AwardInput{
//	    PID:    "755021",
//	    Number: "755021",
//	    Title:  map[string]string{"en": "Personalised Treatment For Cystic Fibrosis Patients"},
//	    Funder: "00k4n6c32",
//	})
//	res, _ := client.Awards().Search(ctx, vocabdex.SearchOptions{Suggest: "cyst"})
//
// The client acts as the system identity unless WithActor is given.
package vocabdex
