package ingestcmder_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	ingestcmder "github.com/corpusware/corpusq/cmd/corpusq/ingest"
	"github.com/corpusware/corpusq/pkg/embeddings"
)

// newIngestCmd builds the command under test with the root's persistent
// flags attached, the way NewCorpusqCmd wires them.
func newIngestCmd() *cobra.Command {
	cmd := ingestcmder.NewIngestCmd()
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .corpusq/ config directory")
	cmd.PersistentFlags().String("log-file", "", "Also append JSON logs to this file")
	return cmd
}

var _ = Describe("NewIngestCmd", func() {
	It("creates a command with expected properties", func() {
		cmd := ingestcmder.NewIngestCmd()
		Expect(cmd.Use).To(Equal("ingest <corpus-file>"))
		Expect(cmd.Short).NotTo(BeEmpty())
	})

	It("registers the pipeline flags", func() {
		cmd := ingestcmder.NewIngestCmd()
		for _, name := range []string{
			"index-provider", "index-target", "collection", "vector-size",
			"distance", "embedding-provider", "embedding-target",
			"embedding-model", "workers",
		} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), "missing flag %s", name)
		}
	})

	It("uses the defaults chain for flag defaults", func() {
		cmd := ingestcmder.NewIngestCmd()
		Expect(cmd.Flags().Lookup("collection").DefValue).To(Equal("registration_collection"))
		Expect(cmd.Flags().Lookup("vector-size").DefValue).To(Equal("384"))
		Expect(cmd.Flags().Lookup("workers").DefValue).To(Equal("4"))
	})

	It("requires exactly one argument", func() {
		cmd := newIngestCmd()
		cmd.SetArgs([]string{})
		Expect(cmd.Execute()).To(HaveOccurred())
	})
})

var _ = Describe("Ingest execution", func() {
	var (
		tmpDir     string
		corpusPath string

		origHFKey    string
		hadOrigHFKey bool
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "ingest-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { os.RemoveAll(tmpDir) })

		corpusPath = filepath.Join(tmpDir, "corpus.txt")
		err = os.WriteFile(corpusPath, []byte("alpha text\n\nbeta text\n\ngamma text"), 0o600)
		Expect(err).NotTo(HaveOccurred())

		// Pin the credential so resolution is deterministic regardless of
		// the machine's environment.
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

	It("chunks, embeds and upserts a corpus over the wire contract", func() {
		var embedAuth atomic.Value
		var embedCalls atomic.Int32

		embedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			embedCalls.Add(1)
			embedAuth.Store(r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `[0.1, 0.2, 0.3]`)
		}))
		DeferCleanup(embedSrv.Close)

		var (
			mu       sync.Mutex
			idxCalls []string
			created  struct {
				Vectors struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			}
			upserted struct {
				Points []struct {
					ID      uint64         `json:"id"`
					Vector  []float32      `json:"vector"`
					Payload map[string]any `json:"payload"`
				} `json:"points"`
			}
		)

		indexSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			idxCalls = append(idxCalls, r.Method+" "+r.URL.Path)
			mu.Unlock()

			switch {
			case r.Method == http.MethodPut && r.URL.Path == "/collections/registration_collection":
				Expect(json.NewDecoder(r.Body).Decode(&created)).To(Succeed())
			case r.Method == http.MethodPut && r.URL.Path == "/collections/registration_collection/points":
				Expect(json.NewDecoder(r.Body).Decode(&upserted)).To(Succeed())
			default:
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"result": true, "status": "ok"}`)
		}))
		DeferCleanup(indexSrv.Close)

		cmd := newIngestCmd()
		cmd.SetArgs([]string{
			corpusPath,
			"--config-dir", tmpDir,
			"--embedding-target", embedSrv.URL,
			"--index-target", indexSrv.URL,
			"--vector-size", "3",
			"--workers", "2",
		})

		Expect(cmd.Execute()).To(Succeed())

		Expect(embedCalls.Load()).To(Equal(int32(3)))
		Expect(embedAuth.Load()).To(Equal("Bearer hf_test_token"))

		Expect(idxCalls).To(Equal([]string{
			"PUT /collections/registration_collection",
			"PUT /collections/registration_collection/points",
		}))
		Expect(created.Vectors.Size).To(Equal(3))
		Expect(created.Vectors.Distance).To(Equal("Cosine"))

		Expect(upserted.Points).To(HaveLen(3))
		for i, text := range []string{"alpha text", "beta text", "gamma text"} {
			Expect(upserted.Points[i].ID).To(Equal(uint64(i)))
			Expect(upserted.Points[i].Vector).To(Equal([]float32{0.1, 0.2, 0.3}))
			Expect(upserted.Points[i].Payload).To(HaveKeyWithValue("text", text))
		}
	})

	It("fails before any network call when no credential resolves", func() {
		var embedCalls, idxCalls atomic.Int32

		embedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			embedCalls.Add(1)
			w.WriteHeader(http.StatusOK)
		}))
		DeferCleanup(embedSrv.Close)

		indexSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			idxCalls.Add(1)
			w.WriteHeader(http.StatusOK)
		}))
		DeferCleanup(indexSrv.Close)

		// Point credential resolution at a variable nothing sets; openai has
		// no hub token fallback, so no source can produce a key.
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"),
			[]byte("[embedding]\napi_key_env = \"CORPUSQ_TEST_MISSING_KEY\"\n"), 0o600)
		Expect(err).NotTo(HaveOccurred())

		cmd := newIngestCmd()
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		cmd.SetArgs([]string{
			corpusPath,
			"--config-dir", tmpDir,
			"--embedding-provider", "openai",
			"--embedding-target", embedSrv.URL,
			"--index-target", indexSrv.URL,
		})

		err = cmd.Execute()
		Expect(err).To(MatchError(embeddings.ErrMissingAPIKey))
		Expect(embedCalls.Load()).To(BeZero())
		Expect(idxCalls.Load()).To(BeZero())
	})

	It("rejects a dimension mismatch before anything reaches the index", func() {
		embedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `[0.1, 0.2]`)
		}))
		DeferCleanup(embedSrv.Close)

		var idxCalls atomic.Int32
		indexSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			idxCalls.Add(1)
			w.WriteHeader(http.StatusOK)
		}))
		DeferCleanup(indexSrv.Close)

		cmd := newIngestCmd()
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		cmd.SetArgs([]string{
			corpusPath,
			"--config-dir", tmpDir,
			"--embedding-target", embedSrv.URL,
			"--index-target", indexSrv.URL,
			"--vector-size", "3",
		})

		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("dimensions"))
		Expect(idxCalls.Load()).To(BeZero())
	})

	It("fails for a corpus file that does not exist", func() {
		cmd := newIngestCmd()
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		cmd.SetArgs([]string{
			filepath.Join(tmpDir, "no-such-corpus.txt"),
			"--config-dir", tmpDir,
		})

		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("reading corpus"))
	})
})
