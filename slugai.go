// Package slugai turns human-entered titles into short, URL-safe English slugs.
//
// Slugai asks an OpenAI chat-completion model to translate and simplify a title.
// When no API key is configured it falls back to a quota-metered proxy service
// that meters free usage per site.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/slugai"
//	    "github.com/ZaguanLabs/slugai/provider"
//	    "github.com/ZaguanLabs/slugai/store"
//	)
//
//	func main() {
//	    kv := store.NewMemoryStore()
//	    errLog := store.NewErrorLog(kv)
//
//	    direct := provider.NewOpenAIProvider(provider.OpenAIConfig{ErrorLog: errLog})
//	    proxy := provider.NewProxyProvider(provider.ProxyConfig{
//	        ErrorLog: errLog,
//	        Quota:    store.NewQuota(kv),
//	    })
//
//	    router := slugai.NewRouter(direct, proxy)
//	    slug, err := router.Route(context.Background(), slugai.TranslationRequest{
//	        Title:   "Ma belle maison",
//	        APIKey:  os.Getenv("OPENAI_API_KEY"),
//	        SiteURL: "https://example.com",
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(slug) // my-beautiful-house
//	}
package slugai
