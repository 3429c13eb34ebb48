// Package songsearch embeds the song catalog search in a Go program
// without running the platform app.
//
// The catalog comes from one source: the built-in seed (default), a slice of
// songs, a YAML or JSON file, or a JSON value stored in Valkey or Redis.
//
//	client, _ := songsearch.New(ctx)
//	defer client.Close()
//
//	filters, _ := client.Filters(ctx)
//	results, _ := client.Search(ctx, songsearch.Selection{
//	    "bands":     []string{"The Beatles"},
//	    "is_single": true,
//	})
package songsearch
