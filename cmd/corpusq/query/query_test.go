package querycmder_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	querycmder "github.com/corpusware/corpusq/cmd/corpusq/query"
	"github.com/corpusware/corpusq/pkg/vector"
)

// newQueryCmd builds the command under test with the root's persistent
// flags attached, the way NewCorpusqCmd wires them.
func newQueryCmd() *cobra.Command {
	cmd := querycmder.NewQueryCmd()
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .corpusq/ config directory")
	cmd.PersistentFlags().String("log-file", "", "Also append JSON logs to this file")
	return cmd
}

var _ = Describe("NewQueryCmd", func() {
	It("creates a command with expected properties", func() {
		cmd := querycmder.NewQueryCmd()
		Expect(cmd.Use).To(Equal("query <text>"))
		Expect(cmd.Short).NotTo(BeEmpty())
	})

	It("registers the pipeline flags plus --quiet", func() {
		cmd := querycmder.NewQueryCmd()
		for _, name := range []string{
			"index-provider", "index-target", "collection", "vector-size",
			"distance", "embedding-provider", "embedding-target",
			"embedding-model", "quiet",
		} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), "missing flag %s", name)
		}
		Expect(cmd.Flags().ShorthandLookup("q").Name).To(Equal("quiet"))
	})

	It("does not expose the ingest worker count", func() {
		cmd := querycmder.NewQueryCmd()
		Expect(cmd.Flags().Lookup("workers")).To(BeNil())
	})

	It("requires exactly one argument", func() {
		cmd := newQueryCmd()
		cmd.SetArgs([]string{})
		Expect(cmd.Execute()).To(HaveOccurred())
	})
})

var _ = Describe("Query execution", func() {
	var (
		tmpDir string

		origHFKey    string
		hadOrigHFKey bool
	)

	newEmbedServer := func(vec string, bodies *[]string) *httptest.Server {
		var mu sync.Mutex
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			*bodies = append(*bodies, string(body))
			mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, vec)
		}))
		DeferCleanup(srv.Close)
		return srv
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "query-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { os.RemoveAll(tmpDir) })

		origHFKey, hadOrigHFKey = os.LookupEnv("HUGGINGFACE_API_KEY")
		Expect(os.Setenv("HUGGINGFACE_API_KEY", "hf_test_token")).To(Succeed())
		DeferCleanup(func() {
			if hadOrigHFKey {
				_ = os.Setenv("HUGGINGFACE_API_KEY", origHFKey)
			} else {
				_ = os.Unsetenv("HUGGINGFACE_API_KEY")
			}
		})
	})

	It("embeds the query text and searches the collection with it", func() {
		var embedBodies []string
		embedSrv := newEmbedServer(`[0.1, 0.2, 0.3]`, &embedBodies)

		var searched struct {
			Vector []float32 `json:"vector"`
		}
		indexSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Method).To(Equal(http.MethodPost))
			Expect(r.URL.Path).To(Equal("/collections/registration_collection/points/search"))
			Expect(json.NewDecoder(r.Body).Decode(&searched)).To(Succeed())
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"result": [{"id": 1, "score": 0.88, "payload": {"text": "beta text"}}], "status": "ok"}`)
		}))
		DeferCleanup(indexSrv.Close)

		cmd := newQueryCmd()
		cmd.SetArgs([]string{
			"alpha text",
			"--config-dir", tmpDir,
			"--embedding-target", embedSrv.URL,
			"--index-target", indexSrv.URL,
			"--vector-size", "3",
		})

		Expect(cmd.Execute()).To(Succeed())

		Expect(embedBodies).To(Equal([]string{`["alpha text"]`}))
		Expect(searched.Vector).To(Equal([]float32{0.1, 0.2, 0.3}))
	})

	It("prints only the point id with --quiet", func() {
		var embedBodies []string
		embedSrv := newEmbedServer(`[0.1, 0.2, 0.3]`, &embedBodies)

		indexSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"result": [{"id": 2, "score": 0.91, "payload": {"text": "gamma text"}}], "status": "ok"}`)
		}))
		DeferCleanup(indexSrv.Close)

		// printMatch writes through the process stdout, not the cobra
		// writer; capture it for the one spec that cares about output.
		origStdout := os.Stdout
		r, w, err := os.Pipe()
		Expect(err).NotTo(HaveOccurred())
		os.Stdout = w
		DeferCleanup(func() { os.Stdout = origStdout })

		cmd := newQueryCmd()
		cmd.SetArgs([]string{
			"gamma text",
			"--quiet",
			"--config-dir", tmpDir,
			"--embedding-target", embedSrv.URL,
			"--index-target", indexSrv.URL,
			"--vector-size", "3",
		})

		execErr := cmd.Execute()
		w.Close()
		os.Stdout = origStdout

		out, err := io.ReadAll(r)
		Expect(err).NotTo(HaveOccurred())
		Expect(execErr).NotTo(HaveOccurred())
		Expect(string(out)).To(Equal("2\n"))
	})

	It("exits nonzero without usage noise when nothing matches", func() {
		var embedBodies []string
		embedSrv := newEmbedServer(`[0.1, 0.2, 0.3]`, &embedBodies)

		indexSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"result": [], "status": "ok"}`)
		}))
		DeferCleanup(indexSrv.Close)

		cmd := newQueryCmd()
		cmd.SetArgs([]string{
			"anything at all",
			"--quiet",
			"--config-dir", tmpDir,
			"--embedding-target", embedSrv.URL,
			"--index-target", indexSrv.URL,
			"--vector-size", "3",
		})

		err := cmd.Execute()
		Expect(err).To(MatchError(vector.ErrNoMatch))
		Expect(cmd.SilenceUsage).To(BeTrue())
		Expect(cmd.SilenceErrors).To(BeTrue())
	})

	It("propagates an index rejection", func() {
		var embedBodies []string
		embedSrv := newEmbedServer(`[0.1, 0.2, 0.3]`, &embedBodies)

		indexSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"status": {"error": "boom"}}`, http.StatusInternalServerError)
		}))
		DeferCleanup(indexSrv.Close)

		cmd := newQueryCmd()
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		cmd.SetArgs([]string{
			"anything at all",
			"--config-dir", tmpDir,
			"--embedding-target", embedSrv.URL,
			"--index-target", indexSrv.URL,
			"--vector-size", "3",
		})

		err := cmd.Execute()
		Expect(err).To(MatchError(vector.ErrRejected))
	})

	It("stops at the embedding provider when it rejects the request", func() {
		embedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error": "model overloaded"}`, http.StatusServiceUnavailable)
		}))
		DeferCleanup(embedSrv.Close)

		var idxCalls int
		indexSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			idxCalls++
			w.WriteHeader(http.StatusOK)
		}))
		DeferCleanup(indexSrv.Close)

		cmd := newQueryCmd()
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		cmd.SetArgs([]string{
			"anything at all",
			"--config-dir", tmpDir,
			"--embedding-target", embedSrv.URL,
			"--index-target", indexSrv.URL,
			"--vector-size", "3",
		})

		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
		Expect(idxCalls).To(BeZero())
	})
})
