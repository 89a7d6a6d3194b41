package utils

import "sync"

// ParallelMap 以最多 workers 个 goroutine 并发地对 inputs 逐项执行 fn，
// 结果按输入顺序返回。单元素输入直接同步处理，避免起协程的开销。
// 各元素之间必须相互独立（fn 不得依赖处理顺序）。
func ParallelMap[T any, R any](inputs []T, workers int, fn func(T) R) []R {
	n := len(inputs)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []R{fn(inputs[0])}
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	results := make([]R, n)
	indexCh := make(chan int, n)
	for i := 0; i < n; i++ {
		indexCh <- i
	}
	close(indexCh)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexCh {
				results[i] = fn(inputs[i])
			}
		}()
	}
	wg.Wait()
	return results
}
