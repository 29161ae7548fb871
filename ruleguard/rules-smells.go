package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

func smells(m dsl.Matcher) {
	// Two consecutive guards returning the same value can be merged with ||.
	m.Match(`if $c1 { return $ret }; if $c2 { return $ret }`).
		Report(`two consecutive guards return the same value; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { return $ret }`)

	m.Match(`for $*_ { for $*_ { $*_ } }`).
		Report(`nested for-loop; consider extracting inner loop logic`)
}

// backendCalls keeps every outbound call bounded by a context deadline.
func backendCalls(m dsl.Matcher) {
	m.Match(`http.Get($*_)`, `http.Post($*_)`, `http.Head($*_)`, `http.PostForm($*_)`).
		Where(!m.File().Name.Matches(`_test\.go$`)).
		Report(`request without context; use http.NewRequestWithContext so timeouts apply`)

	m.Match(`http.NewRequest($method, $url, $body)`).
		Report(`use http.NewRequestWithContext`).
		Suggest(`http.NewRequestWithContext(ctx, $method, $url, $body)`)

	m.Match(`http.DefaultClient`).
		Where(!m.File().Name.Matches(`_test\.go$`)).
		Report(`inject an *http.Client instead of using http.DefaultClient`)
}

// retryDelays routes waits through summary.SleepFunc so tests never block.
func retryDelays(m dsl.Matcher) {
	m.Match(`time.Sleep($_)`).
		Where(!m.File().Name.Matches(`_test\.go$`)).
		Report(`time.Sleep ignores cancellation; use an injected summary.SleepFunc`)
}

// logging keeps library packages on slog.
func logging(m dsl.Matcher) {
	m.Match(`fmt.Println($*_)`, `fmt.Printf($*_)`, `log.Printf($*_)`, `log.Println($*_)`).
		Where(m.File().PkgPath.Matches(`/internal/`) && !m.File().Name.Matches(`_test\.go$`)).
		Report(`use the injected *slog.Logger instead of printing`)
}
