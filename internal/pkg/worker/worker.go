package worker

import (
	"context"
	"sync"
	"time"

	"geeknews/internal/pkg/notify"
	"geeknews/pkg/logger"

	"go.uber.org/zap"
)

// Sender 投递单个事件，失败时返回错误
type Sender func(ctx context.Context, ev notify.Event) error

// EventTask 待投递的事件
type EventTask struct {
	Event notify.Event
	Retry int // 重试次数
}

// WorkerPool 异步投递事件，把网络发布移出请求路径
// 重试耗尽或队列已满时交给 fallback (通常是本地 Hub)
type WorkerPool struct {
	TaskQueue  chan EventTask
	RetryQueue chan EventTask // 重试队列
	WorkerNum  int
	MaxRetry   int // 最大重试次数
	RetryDelay time.Duration

	send     Sender
	fallback notify.Publisher

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWorkerPool(send Sender, fallback notify.Publisher, workerNum int, bufferSize int) *WorkerPool {
	if workerNum <= 0 {
		workerNum = 1
	}
	if bufferSize < 2 {
		bufferSize = 2
	}
	if fallback == nil {
		fallback = notify.Nop{}
	}
	return &WorkerPool{
		TaskQueue:  make(chan EventTask, bufferSize),
		RetryQueue: make(chan EventTask, bufferSize/2),
		WorkerNum:  workerNum,
		MaxRetry:   3, // 最多重试3次
		RetryDelay: 200 * time.Millisecond,
		send:       send,
		fallback:   fallback,
	}
}

// Start 启动工作协程，ctx 结束或调用 Stop 后退出
func (p *WorkerPool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.WorkerNum; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	// 启动重试处理协程
	p.wg.Add(1)
	go p.retryWorker(ctx)

	logger.L().Info("event worker pool started", zap.Int("workers", p.WorkerNum))
}

// Stop 停止并等待所有协程退出，队列中剩余的事件交给 fallback
func (p *WorkerPool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	for {
		select {
		case task := <-p.TaskQueue:
			p.fallback.Publish(context.Background(), task.Event)
		case task := <-p.RetryQueue:
			p.fallback.Publish(context.Background(), task.Event)
		default:
			return
		}
	}
}

// Publish 实现 notify.Publisher，不阻塞调用方
func (p *WorkerPool) Publish(ctx context.Context, ev notify.Event) {
	select {
	case p.TaskQueue <- EventTask{Event: ev}:
	default:
		logger.L().Warn("event queue full, delivering locally", zap.String("type", string(ev.Type)))
		p.fallback.Publish(ctx, ev)
	}
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-p.TaskQueue:
			p.process(ctx, id, task)
		}
	}
}

func (p *WorkerPool) process(ctx context.Context, id int, task EventTask) {
	err := p.send(ctx, task.Event)
	if err == nil {
		return
	}

	log := logger.L().With(
		zap.Int("worker", id),
		zap.String("type", string(task.Event.Type)),
		zap.String("content_id", task.Event.ContentID),
		zap.Error(err))

	// 如果未达到最大重试次数，加入重试队列
	if task.Retry < p.MaxRetry {
		task.Retry++
		select {
		case p.RetryQueue <- task:
			log.Debug("event added to retry queue", zap.Int("attempt", task.Retry))
			return
		default:
			log.Warn("retry queue full")
		}
	} else {
		log.Warn("event exceeded max retries")
	}
	p.fallback.Publish(ctx, task.Event)
}

func (p *WorkerPool) retryWorker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-p.RetryQueue:
			// 延迟重试，避免立即重试
			select {
			case <-ctx.Done():
				p.fallback.Publish(context.Background(), task.Event)
				return
			case <-time.After(time.Duration(task.Retry) * p.RetryDelay):
			}

			// 重新加入主队列
			select {
			case p.TaskQueue <- task:
			default:
				logger.L().Warn("main queue full, delivering locally", zap.String("type", string(task.Event.Type)))
				p.fallback.Publish(ctx, task.Event)
			}
		}
	}
}
