// revcache package provides a keyed memoization layer with stale-while-revalidate semantics and per-key request coalescing. It is designed to put a fast answer in front of expensive operations, such as database queries or API calls, by serving the previously computed result immediately and refreshing it in the background when it grows stale.
//
// The Cache type is the main component of the package and supports generic types for cached values. Each Resolve call names a key and a compute function; the cache decides, per call, whether to serve the stored value, refresh it in the background, or block on a fresh computation. Concurrent calls for the same key never run the computation twice: they attach to the one already in flight and share its outcome. A failed refresh never destroys previously stored data: callers holding a usable fallback keep getting the old value, while the failure is forwarded to an optional error observer. Errors wrapped with Fatal bypass the fallback and always propagate.
//
// Example use case:
//
// Suppose we have an application that retrieves user profiles from a slow database. We can use revcache to serve the profiles quickly and refresh them behind the scenes.
//
// package main
//
// import (
//
//	"context"
//	"fmt"
//	"time"
//
//	"github.com/revcache/revcache"
//
// )
//
//	type UserProfile struct {
//		ID   int
//		Name string
//	}
//
//	func fetchUserProfile(ctx context.Context, userID string) (*UserProfile, error) {
//		// Simulate a slow database query.
//		time.Sleep(2 * time.Second)
//
//		// Fetch the user profile from the database.
//		profile := &UserProfile{ID: 1, Name: "John Doe"}
//
//		return profile, nil
//	}
//
//	func main() {
//		cache, err := revcache.New[UserProfile](nil)
//		if err != nil {
//			fmt.Println("Creating cache:", err)
//			return
//		}
//		defer cache.Close()
//
//		ctx := context.Background()
//		userID := "1"
//
//		// Fetch the user profile using the cache.
//		profile, err := cache.Resolve(ctx, userID, fetchUserProfile, revcache.WithLifetime(5*time.Minute))
//		if err != nil {
//			fmt.Println("Error fetching user profile:", err)
//			return
//		}
//
//		fmt.Printf("User profile: ID=%d, Name=%s\n", profile.ID, profile.Name)
//	}
//
// In this example, every request within five minutes of a successful fetch is answered from the cache. After that, the next request still gets the cached profile immediately, and a single background refresh updates the stored value for subsequent calls. Storage is pluggable: the default is a process-local map, and the backend subpackages provide LRU and Redis backed stores.
package revcache
