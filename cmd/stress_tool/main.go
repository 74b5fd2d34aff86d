package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

var (
	baseURL    = flag.String("url", "http://localhost:8080", "server base URL")
	totalUsers = flag.Int("users", 200, "concurrent users")
	contentID  = flag.String("content", "1", "content id to hit")
	httpClient *http.Client
)

func init() {
	// 优化 HTTP Client 配置
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 1000
	t.MaxIdleConnsPerHost = 1000
	t.MaxConnsPerHost = 1000
	httpClient = &http.Client{
		Transport: t,
		Timeout:   10 * time.Second,
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func main() {
	flag.Parse()

	commentBurst()
	reactionBurst()
}

// commentBurst 同一用户并发发表评论，节流后只能成功一条
func commentBurst() {
	token, err := login("stress-commenter")
	if err != nil {
		fmt.Printf("登录失败: %v\n", err)
		return
	}

	fmt.Printf("开始压测：同一用户并发发表 %d 条评论 (ContentID: %s)...\n", *totalUsers, *contentID)

	var wg sync.WaitGroup
	var mu sync.Mutex
	status := make(map[int]int)
	start := time.Now()

	for i := 1; i <= *totalUsers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"content":"stress comment number %d"}`, n)
			code, _, err := call(http.MethodPost, "/api/v1/feed/"+*contentID+"/comments", token, body)
			if err != nil {
				code = -1
			}
			mu.Lock()
			status[code]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	report(time.Since(start), status)
	fmt.Printf("成功发表: %d (预期: 1)\n", status[http.StatusCreated])
	fmt.Println("--------------------------------------------------")
}

// reactionBurst 不同用户并发点赞，计数增量应等于成功的用户数
func reactionBurst() {
	before, err := likes()
	if err != nil {
		fmt.Printf("读取表情失败: %v\n", err)
		return
	}

	fmt.Printf("开始压测：%d 个用户并发点赞 (ContentID: %s)...\n", *totalUsers, *contentID)

	var wg sync.WaitGroup
	var mu sync.Mutex
	status := make(map[int]int)
	runID := time.Now().UnixNano()
	start := time.Now()

	for i := 1; i <= *totalUsers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			code := -1
			if token, err := login(fmt.Sprintf("stress-%d-%d", runID, n)); err == nil {
				code, _, _ = call(http.MethodPut, "/api/v1/feed/"+*contentID+"/reactions", token, `{"type":"LIKE"}`)
			}
			mu.Lock()
			status[code]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	duration := time.Since(start)

	after, err := likes()
	if err != nil {
		fmt.Printf("读取表情失败: %v\n", err)
		return
	}

	report(duration, status)
	fmt.Printf("LIKE 增量: %d (预期: %d)\n", after-before, status[http.StatusOK])
	fmt.Println("--------------------------------------------------")
}

func report(duration time.Duration, status map[int]int) {
	fmt.Println("--------------------------------------------------")
	fmt.Printf("压测结束，耗时: %v\n", duration)
	fmt.Printf("总请求数: %d\n", *totalUsers)
	fmt.Printf("QPS: %.2f\n", float64(*totalUsers)/duration.Seconds())
	for code, n := range status {
		fmt.Printf("HTTP %d: %d\n", code, n)
	}
}

func login(username string) (string, error) {
	body := fmt.Sprintf(`{"username":%q,"password":"stress"}`, username)
	code, data, err := call(http.MethodPost, "/api/v1/auth/login", "", body)
	if err != nil {
		return "", err
	}
	if code != http.StatusOK {
		return "", fmt.Errorf("login status %d", code)
	}

	var session struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &session); err != nil {
		return "", err
	}
	return session.Token, nil
}

func likes() (int, error) {
	code, data, err := call(http.MethodGet, "/api/v1/feed/"+*contentID+"/reactions", "", "")
	if err != nil {
		return 0, err
	}
	if code != http.StatusOK {
		return 0, fmt.Errorf("reactions status %d", code)
	}

	var state struct {
		Reactions map[string]int `json:"reactions"`
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return 0, err
	}
	return state.Reactions["LIKE"], nil
}

func call(method, path, token, body string) (int, json.RawMessage, error) {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, *baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	var result envelope
	if err := json.Unmarshal(respBody, &result); err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, result.Data, nil
}
