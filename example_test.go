//nolint:ineffassign
package revcache_test

import (
	"context"
	"fmt"
	"time"

	"github.com/revcache/revcache"
)

func ExampleCache() {
	type UserProfile struct {
		ID   int
		Name string
	}

	fetchCalls := 0
	fetchUserProfile := func(ctx context.Context, userID string) (*UserProfile, error) {
		// Here would be a slow database query.
		fetchCalls++

		return &UserProfile{ID: 1, Name: "John Doe"}, nil
	}

	cache, err := revcache.New[UserProfile](nil)
	if err != nil {
		fmt.Println("Creating cache:", err)
		return
	}
	defer cache.Close()

	ctx := context.Background()
	userID := "1"

	// Fetch the user profile using the cache.
	profile, _ := cache.Resolve(ctx, userID, fetchUserProfile, revcache.WithLifetime(time.Minute))

	// Fetch it again. The entry is still fresh, so this is a pure cache hit
	// and the fetch function is not called.
	profile, _ = cache.Resolve(ctx, userID, fetchUserProfile, revcache.WithLifetime(time.Minute))

	fmt.Printf("User profile: ID=%d, Name=%s (fetches: %d)\n", profile.ID, profile.Name, fetchCalls)
	// Output: User profile: ID=1, Name=John Doe (fetches: 1)
}
