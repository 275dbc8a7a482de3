package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxRequestBody bounds profile uploads
const maxRequestBody = 1 << 20

// WebServer holds the HTTP server configuration
type WebServer struct {
	config  *Config
	addr    string
	planner *Planner
	reports *ReportBuilder
	logger  *zap.Logger
}

// NewWebServer creates a new web server instance
func NewWebServer(config *Config, addr string, planner *Planner, reports *ReportBuilder, logger *zap.Logger) *WebServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebServer{
		config:  config,
		addr:    addr,
		planner: planner,
		reports: reports,
		logger:  logger,
	}
}

// APIPlanRequest asks for plans for a profile
type APIPlanRequest struct {
	Profile   FinancialProfile `json:"profile"`
	Languages []Language       `json:"languages,omitempty"` // Defaults to the configured languages
}

// APIPlanResponse carries the generated plans
type APIPlanResponse struct {
	Success   bool                     `json:"success"`
	Error     string                   `json:"error,omitempty"`
	ErrorKind string                   `json:"error_kind,omitempty"`
	RequestID string                   `json:"request_id"`
	Directive *PlanningDirective       `json:"directive,omitempty"`
	Snapshot  *Snapshot                `json:"snapshot,omitempty"`
	Plans     map[Language]*ParsedPlan `json:"plans,omitempty"`
}

// APIReportRequest asks for a PDF. Without a plan one is generated first.
type APIReportRequest struct {
	Profile  FinancialProfile `json:"profile"`
	Language Language         `json:"language"`
	Plan     *ParsedPlan      `json:"plan,omitempty"`
}

// Handler returns the API routes
func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", ws.handleIndex)
	mux.HandleFunc("/healthz", ws.handleHealth)
	mux.HandleFunc("/api/config", ws.handleGetConfig)
	mux.HandleFunc("/api/plan", ws.handlePlan)
	mux.HandleFunc("/api/report", ws.handleReport)
	return ws.withRequestID(mux)
}

// Start serves until ctx is cancelled
func (ws *WebServer) Start(ctx context.Context, open bool) error {
	listener, err := net.Listen("tcp", ws.addr)
	if err != nil {
		return err
	}

	// Get the actual address (with assigned port)
	actualAddr := listener.Addr().String()
	url := fmt.Sprintf("http://%s", actualAddr)

	// If listening on all interfaces, use localhost for the URL
	if strings.HasPrefix(actualAddr, ":") || strings.HasPrefix(actualAddr, "0.0.0.0:") {
		port := actualAddr[strings.LastIndex(actualAddr, ":")+1:]
		url = fmt.Sprintf("http://localhost:%s", port)
	}

	server := &http.Server{
		Handler:           ws.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()
	ws.logger.Info("web server started", zap.String("addr", actualAddr), zap.String("url", url))

	if open {
		go openBrowser(url)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		ws.logger.Info("web server stopping")
		return server.Shutdown(shutdownCtx)
	}
}

type requestIDKey struct{}

func (ws *WebServer) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		ws.logger.Debug("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}

// handleIndex serves the main web UI
func (ws *WebServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, webUIHTML)
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetConfig returns the current configuration
func (ws *WebServer) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if ws.config == nil {
		defaultConfig, err := LoadDefaultConfig()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, defaultConfig)
		return
	}

	writeJSON(w, http.StatusOK, ws.config)
}

// handlePlan validates the profile and generates plans in every requested language
func (ws *WebServer) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := requestID(r)

	var req APIPlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIPlanResponse{RequestID: id, Error: "Invalid request: " + err.Error()})
		return
	}

	langs := req.Languages
	if len(langs) == 0 {
		var err error
		if langs, err = ws.config.Languages(); err != nil {
			writeJSON(w, http.StatusInternalServerError, APIPlanResponse{RequestID: id, Error: err.Error()})
			return
		}
	}

	set, err := ws.planner.GeneratePlans(r.Context(), &req.Profile, langs)
	if err != nil {
		ws.sendPlanError(w, id, err)
		return
	}

	snap := BuildSnapshot(&req.Profile)
	writeJSON(w, http.StatusOK, APIPlanResponse{
		Success:   true,
		RequestID: id,
		Directive: &set.Directive,
		Snapshot:  &snap,
		Plans:     sanitizedPlans(set.Plans),
	})
}

// sanitizedPlans copies plans with section markup reduced to display elements
func sanitizedPlans(plans map[Language]*ParsedPlan) map[Language]*ParsedPlan {
	out := make(map[Language]*ParsedPlan, len(plans))
	for lang, plan := range plans {
		clean := &ParsedPlan{Disclaimer: plan.Disclaimer, Sections: make([]PlanSection, len(plan.Sections))}
		for i, s := range plan.Sections {
			s.Content = SanitizeSection(s.Content)
			clean.Sections[i] = s
		}
		out[lang] = clean
	}
	return out
}

// handleReport returns the PDF report for browser download
func (ws *WebServer) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := requestID(r)

	var req APIReportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIPlanResponse{RequestID: id, Error: "Invalid request: " + err.Error()})
		return
	}

	plan := req.Plan
	if plan == nil {
		set, err := ws.planner.GeneratePlans(r.Context(), &req.Profile, []Language{req.Language})
		if err != nil {
			ws.sendPlanError(w, id, err)
			return
		}
		plan = set.Plans[req.Language]
	}

	pdfBytes, err := ws.reports.Build(r.Context(), &req.Profile, plan, req.Language)
	if err != nil {
		ws.sendPlanError(w, id, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ReportFilename(req.Profile.Name)))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdfBytes)))
	w.Write(pdfBytes)
}

// sendPlanError maps a pipeline error to a status code and a short user message
func (ws *WebServer) sendPlanError(w http.ResponseWriter, id string, err error) {
	resp := APIPlanResponse{RequestID: id, Error: "An unknown error occurred."}
	status := http.StatusInternalServerError

	var planErr *PlanError
	if errors.As(err, &planErr) {
		resp.Error = planErr.UserMessage()
		resp.ErrorKind = planErr.Kind.String()
		switch planErr.Kind {
		case KindValidation:
			status = http.StatusUnprocessableEntity
		case KindGeneration:
			status = http.StatusBadGateway
		}
	}

	ws.logger.Warn("request failed", zap.String("request_id", id), zap.Int("status", status), zap.Error(err))
	writeJSON(w, status, resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// webUIHTML is the embedded web interface HTML
const webUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>FinanceBuddyGPT</title>
    <style>
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Noto Sans Devanagari', sans-serif; background: #f3f4f6; color: #111827; line-height: 1.6; }
        header { background: #fff; padding: 1rem 2rem; box-shadow: 0 1px 2px rgba(0,0,0,0.06); display: flex; justify-content: space-between; align-items: center; }
        header h1 { color: #4f46e5; font-size: 1.5rem; }
        main { display: grid; grid-template-columns: 380px 1fr; gap: 2rem; padding: 2rem; max-width: 1400px; margin: 0 auto; }
        form, .report > div { background: #fff; border-radius: 12px; padding: 1.5rem; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
        label { display: block; font-size: 0.85rem; color: #4b5563; margin-top: 0.75rem; }
        input, select, textarea { width: 100%; padding: 0.5rem; border: 1px solid #e5e7eb; border-radius: 8px; font: inherit; }
        .row { display: grid; grid-template-columns: 2fr 1fr 1fr 1fr; gap: 0.5rem; }
        button { margin-top: 1rem; padding: 0.6rem 1rem; border: 0; border-radius: 8px; background: #4f46e5; color: #fff; font-weight: 600; cursor: pointer; }
        button.secondary { background: #e5e7eb; color: #111827; }
        .report { display: flex; flex-direction: column; gap: 1rem; }
        .report ul { padding-left: 1.25rem; }
        .error { color: #dc2626; }
        .disclaimer { font-size: 0.8rem; color: #6b7280; font-style: italic; text-align: center; }
    </style>
</head>
<body>
<header>
    <h1>FinanceBuddyGPT</h1>
    <div>
        <button class="secondary" onclick="setLanguage('English')">English</button>
        <button class="secondary" onclick="setLanguage('Hindi')">हिन्दी</button>
    </div>
</header>
<main>
<form id="profile" onsubmit="generate(event)">
    <label>Name <input name="name" required></label>
    <label>Age <input name="age" type="number"></label>
    <label>Monthly income (after tax) <input name="monthly_income" type="number"></label>
    <label>Monthly fixed expenses <input name="fixed_expenses" type="number"></label>
    <label>Monthly variable expenses <input name="variable_expenses" type="number"></label>
    <label>Current savings <input name="savings" type="number"></label>
    <label>Existing investment (type, amount)</label>
    <div class="row"><input name="inv_type"><input name="inv_amount" type="number"></div>
    <label>Debt (type, amount, rate %, tenure months)</label>
    <div class="row"><input name="debt_type"><input name="debt_amount" type="number"><input name="debt_rate" type="number"><input name="debt_tenure" type="number"></div>
    <label>Financial goals <textarea name="goals" rows="2"></textarea></label>
    <label>Goal timeframe (years) <input name="goal_timeframe" type="number"></label>
    <label>Risk tolerance
        <select name="risk_tolerance"><option>Conservative</option><option selected>Moderate</option><option>Aggressive</option></select>
    </label>
    <button type="submit" id="generate">Generate My Plan</button>
    <p id="error" class="error"></p>
</form>
<div>
    <div id="report" class="report"><div><h2>Welcome to FinanceBuddyGPT!</h2><p>Fill in your details on the left to get a personalized financial plan tailored for you.</p></div></div>
    <button id="download" style="display:none" onclick="download()">Download Report</button>
</div>
</main>
<script>
let plans = {};
let language = 'English';
let profile = null;

function readProfile() {
    const f = new FormData(document.getElementById('profile'));
    const num = k => parseFloat(f.get(k)) || 0;
    return {
        name: f.get('name'), age: f.get('age'),
        monthly_income: num('monthly_income'), fixed_expenses: num('fixed_expenses'),
        variable_expenses: num('variable_expenses'), savings: num('savings'),
        investments: [{type: f.get('inv_type'), amount: num('inv_amount')}],
        debts: [{type: f.get('debt_type'), outstanding_amount: num('debt_amount'), interest_rate: num('debt_rate'), remaining_tenure_months: f.get('debt_tenure')}],
        goals: f.get('goals'), goal_timeframe: f.get('goal_timeframe'), risk_tolerance: f.get('risk_tolerance'),
    };
}

async function generate(e) {
    e.preventDefault();
    document.getElementById('error').textContent = '';
    document.getElementById('generate').disabled = true;
    profile = readProfile();
    try {
        const res = await fetch('/api/plan', {method: 'POST', headers: {'Content-Type': 'application/json'}, body: JSON.stringify({profile})});
        const data = await res.json();
        if (!data.success) throw new Error(data.error);
        plans = data.plans;
        render();
    } catch (err) {
        document.getElementById('error').textContent = err.message;
    } finally {
        document.getElementById('generate').disabled = false;
    }
}

function setLanguage(lang) { language = lang; render(); }

function render() {
    const plan = plans[language];
    if (!plan) return;
    const root = document.getElementById('report');
    root.innerHTML = '';
    for (const s of plan.sections) {
        const card = document.createElement('div');
        const h = document.createElement('h2');
        h.textContent = s.title;
        const body = document.createElement('div');
        body.innerHTML = s.content;
        card.append(h, body);
        root.append(card);
    }
    if (plan.disclaimer) {
        const d = document.createElement('p');
        d.className = 'disclaimer';
        d.textContent = plan.disclaimer;
        root.append(d);
    }
    document.getElementById('download').style.display = 'block';
}

async function download() {
    const res = await fetch('/api/report', {method: 'POST', headers: {'Content-Type': 'application/json'}, body: JSON.stringify({profile, language, plan: plans[language]})});
    if (!res.ok) {
        const data = await res.json();
        document.getElementById('error').textContent = data.error;
        return;
    }
    const blob = await res.blob();
    const name = (res.headers.get('Content-Disposition') || '').split('filename=')[1] || 'report.pdf';
    const a = document.createElement('a');
    a.href = URL.createObjectURL(blob);
    a.download = name.replace(/"/g, '');
    a.click();
}
</script>
</body>
</html>`
