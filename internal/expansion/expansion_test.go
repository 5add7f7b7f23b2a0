package expansion_test

import (
	"github.com/animalet/envkit/internal/expansion"
	"github.com/animalet/envkit/pkg/resolver"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
)

// MockResolver resolves a single known key.
type MockResolver struct{}

func (m *MockResolver) Resolve(key string) (string, error) {
	if key == "test-secret" {
		return "resolved-secret", nil
	}
	return "", errors.New("unknown key")
}

func (m *MockResolver) Name() string {
	return "mock"
}

var _ = Describe("Expansion", func() {
	var reg *resolver.Registry

	BeforeEach(func() {
		reg = resolver.NewRegistry()
		reg.Register("mock", &MockResolver{})
		reg.Register(resolver.DefaultPrefix, resolver.NewEnvResolver(func(key string) (string, bool) {
			if key == "HOST" {
				return "localhost", true
			}
			return "", false
		}))
	})

	Context("Value", func() {
		It("should expand prefixed references", func() {
			value, err := expansion.Value("${mock:test-secret}", reg)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("resolved-secret"))
		})

		It("should expand references without prefix through env", func() {
			value, err := expansion.Value("http://${HOST}:${env:HOST}/", reg)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("http://localhost:localhost/"))
		})

		DescribeTable("should keep text that is not a braced reference",
			func(input, expected string) {
				value, err := expansion.Value(input, reg)
				Expect(err).NotTo(HaveOccurred())
				Expect(value).To(Equal(expected))
			},
			Entry("bare variable", "http://$HOST/", "http://$HOST/"),
			Entry("double dollar", "pa$$word", "pa$$word"),
			Entry("positional", "$1 and $", "$1 and $"),
			Entry("empty braces", "a${}b", "a${}b"),
			Entry("unterminated", "a${HOST", "a${HOST"),
			Entry("escaped reference", `\${HOST} is ${HOST}`, "${HOST} is localhost"),
		)

		It("should leave plain text untouched", func() {
			value, err := expansion.Value("plain value", reg)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("plain value"))
		})

		It("should return error on resolution error", func() {
			_, err := expansion.Value("${unregistered:some-key}", reg)
			Expect(err).To(MatchError(ContainSubstring("error resolving reference")))
		})
	})

	Context("Values", func() {
		It("should expand every value in place", func() {
			values := map[string]string{
				"A": "${mock:test-secret}",
				"B": "normal",
			}
			Expect(expansion.Values(values, reg)).To(Succeed())
			Expect(values).To(Equal(map[string]string{
				"A": "resolved-secret",
				"B": "normal",
			}))
		})

		It("should name the key that failed", func() {
			values := map[string]string{"BROKEN": "${mock:other}"}
			err := expansion.Values(values, reg)
			Expect(err).To(MatchError(ContainSubstring(`unable to expand "BROKEN"`)))
		})
	})
})
