package async

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"helpboard/pkg/logger"
)

// Task 表示一个异步任务
type Task struct {
	ID      string
	Name    string
	Handler func(ctx context.Context) error
	Timeout time.Duration
}

// Worker 异步任务处理器，队列满时丢弃任务
type Worker struct {
	taskQueue chan Task
	logger    *logger.Logger
	wg        sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
	seq     atomic.Uint64
}

// NewWorker 创建一个新的工作器
func NewWorker(queueSize int, logger *logger.Logger) *Worker {
	return &Worker{
		taskQueue: make(chan Task, queueSize),
		logger:    logger,
	}
}

// Start 启动工作器
func (w *Worker) Start(numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.processTask()
	}
}

// Stop 停止接收任务并等待队列中的任务执行完毕
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.taskQueue)
	w.mu.Unlock()

	w.wg.Wait()
}

// Submit 非阻塞地提交任务，队列已满或已停止时返回false
func (w *Worker) Submit(name string, timeout time.Duration, handler func(ctx context.Context) error) bool {
	task := Task{
		ID:      fmt.Sprintf("task_%d", w.seq.Add(1)),
		Name:    name,
		Handler: handler,
		Timeout: timeout,
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		w.logger.Warn("工作器已停止，丢弃任务", "task", name)
		return false
	}

	select {
	case w.taskQueue <- task:
		return true
	default:
		w.logger.Warn("任务队列已满，丢弃任务", "task", name)
		return false
	}
}

// processTask 处理任务的工作循环
func (w *Worker) processTask() {
	defer w.wg.Done()

	for task := range w.taskQueue {
		w.executeTask(task)
	}
}

// executeTask 执行单个任务，错误只记录不返回
func (w *Worker) executeTask(task Task) {
	start := time.Now()

	ctx := context.Background()
	if task.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("异步任务panic", "task_id", task.ID, "task", task.Name, "panic", r)
		}
	}()

	if err := task.Handler(ctx); err != nil {
		w.logger.Error("异步任务失败", "task_id", task.ID, "task", task.Name, "error", err)
		return
	}
	w.logger.Debug("异步任务完成", "task_id", task.ID, "task", task.Name, "duration", time.Since(start))
}
