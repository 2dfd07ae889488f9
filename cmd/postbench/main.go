package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/gin-blog/config"
	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range vs {
		sum += d
	}
	return sum / time.Duration(len(vs))
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

// 压测发文、列表与分类查询，使用当前配置指向的数据库
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	if err := database.Migrate(db); err != nil {
		panic(err)
	}
	defer database.Close(db)

	tokens := must(service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expire, cfg.JWT.Issuer))
	users := service.NewUserService(repository.NewUserRepository(db), tokens)
	posts := service.NewPostService(repository.NewPostRepository(db))

	// params
	N := envInt("N", 2000)       // posts to create
	CONC := envInt("CONC", 4)    // concurrent writers
	READS := envInt("READS", 50) // list queries per kind

	ctx := context.Background()

	// 每次运行使用新作者，避免与已有数据冲突
	name := "bench-" + uuid.New().String()[:8]
	author := must(users.Create(ctx, name, "bench-password"))

	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)

	var mu sync.Mutex
	writes := make([]time.Duration, 0, N)
	var wg sync.WaitGroup
	t0 := time.Now()
	for w := 0; w < CONC; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				st := time.Now()
				_, err := posts.Create(ctx, service.CreatePostInput{
					Title:    fmt.Sprintf("post %d", i),
					Content:  fmt.Sprintf("bench content %d", i),
					Category: string(model.Categories[i%len(model.Categories)]),
					AuthorID: author.ID,
				})
				if err != nil {
					panic(err)
				}
				d := time.Since(st)
				mu.Lock()
				writes = append(writes, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	writeDur := time.Since(t0)

	listAll := make([]time.Duration, 0, READS)
	listCat := make([]time.Duration, 0, READS)
	rows := 0
	for i := 0; i < READS; i++ {
		st := time.Now()
		all := must(posts.List(ctx))
		listAll = append(listAll, time.Since(st))
		rows = len(all)

		st = time.Now()
		_ = must(posts.ListByCategory(ctx, string(model.Categories[i%len(model.Categories)])))
		listCat = append(listCat, time.Since(st))
	}

	fmt.Printf("driver=%s N=%d CONC=%d READS=%d\n", cfg.Database.Driver, N, CONC, READS)
	fmt.Printf("Create post: total=%v avg=%v p50=%v p95=%v p99=%v\n",
		writeDur, avg(writes), pct(writes, 0.50), pct(writes, 0.95), pct(writes, 0.99))
	fmt.Printf("List all (rows=%d): avg=%v p95=%v p99=%v\n", rows, avg(listAll), pct(listAll, 0.95), pct(listAll, 0.99))
	fmt.Printf("List by category: avg=%v p95=%v p99=%v\n", avg(listCat), pct(listCat, 0.95), pct(listCat, 0.99))
}
