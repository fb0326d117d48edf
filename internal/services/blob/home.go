package blob

import (
	"html/template"
	"net/http"

	"github.com/asad/storagegateway/internal/logging"
)

var homeTemplate = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Storage Gateway</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; background-color: #f5f5f5; }
        .container { background-color: white; padding: 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #0078d4; }
        .info { background-color: #e7f3ff; padding: 15px; border-radius: 4px; margin: 20px 0; }
        .endpoint { background-color: #f0f0f0; padding: 10px; margin: 10px 0; border-radius: 4px; font-family: monospace; }
        .success { color: #107c10; font-weight: bold; }
        button { background-color: #0078d4; color: white; border: none; padding: 10px 20px; margin: 5px; border-radius: 4px; cursor: pointer; }
        button:hover { background-color: #005a9e; }
        .result { margin-top: 20px; padding: 15px; background-color: #f9f9f9; border: 1px solid #ddd; border-radius: 4px; white-space: pre-wrap; font-family: monospace; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Storage Gateway</h1>

        <div class="info">
            <p><strong>Storage Account:</strong> {{ .Account }}</p>
            <p><strong>Container:</strong> {{ .Container }}</p>
            <p><strong>Authentication:</strong> <span class="success">Workload Identity (Managed Identity)</span></p>
        </div>

        <h2>Available Endpoints:</h2>
        <div class="endpoint"><strong>GET /health</strong> - Health check endpoint</div>
        <div class="endpoint"><strong>GET /list</strong> - List all blobs in the container</div>
        <div class="endpoint"><strong>POST /upload</strong> - Upload a test file to the container</div>

        <h2>Quick Actions:</h2>
        <button onclick="call('/health')">Check Health</button>
        <button onclick="call('/list')">List Blobs</button>
        <button onclick="call('/upload', {method: 'POST'})">Upload Test File</button>

        <div id="result" class="result" style="display:none;"></div>
    </div>

    <script>
        function call(path, opts) {
            fetch(path, opts)
                .then(response => response.json())
                .then(data => show(data))
                .catch(error => show({error: error.message}));
        }

        function show(data) {
            const el = document.getElementById('result');
            el.textContent = JSON.stringify(data, null, 2);
            el.style.display = 'block';
        }
    </script>
</body>
</html>
`))

// handleHome renders the informational page for the configured account and container.
func (s *BlobService) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	err := homeTemplate.Execute(w, struct {
		Account   string
		Container string
	}{s.account, s.container})
	if err != nil {
		s.logger.Error("failed to render home page", logging.ErrorField(err))
	}
}
