package endpoint

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"os"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/jobly/jobly-api/auth"
	. "github.com/jobly/jobly-api/internal/testutil"
	"github.com/jobly/jobly-api/internal/testutil/rest"
	e "github.com/jobly/jobly-api/rest/endpoint/v1"
	"github.com/jobly/jobly-api/rest/models"
	"github.com/jobly/jobly-api/types"
)

type companyDetailResponse struct {
	Company types.CompanyDetail `json:"company"`
}

type userDetailResponse struct {
	User types.UserDetail `json:"user"`
}

var _ = Describe("JoblyEndpoint", func() {
	var (
		dir      string
		endpoint *JoblyEndpoint
		jobs     []types.Job
		client   rest.Client
		u1Token  string
		adminTok string
	)

	BeforeEach(func() {
		var err error
		dir, err = ioutil.TempDir("", "jobly")
		Expect(err).ToNot(HaveOccurred())

		endpoint, err = NewEndpointConfigWithLogger(TestLogger(), SQLiteConfig(dir)).
			WithMigrateOnStart(true).
			NewEndpoint()
		Expect(err).ToNot(HaveOccurred())
		Expect(endpoint.Ready()).To(BeTrue())

		jobs = SeedStore(endpoint.store)
		client = rest.Client{Routes: endpoint.RoutesRest(rest.Prefix)}

		tokens := auth.NewTokenIssuer(DefaultSecretKey, DefaultTokenTTL)
		u1Token, err = tokens.Sign(auth.Claims{Username: "u1"})
		Expect(err).ToNot(HaveOccurred())
		adminTok, err = tokens.Sign(auth.Claims{Username: "admin", IsAdmin: true})
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		Expect(endpoint.Close()).To(Succeed())
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	Describe("POST /auth/token", func() {
		It("Should return a token for valid credentials", func() {
			var response models.AuthTokenResponse
			body := fmt.Sprintf(`{"username": "u1", "password": "%s"}`, Password)
			code := client.ExecutePost(e.AuthTokenPathFormat, body, &response)
			Expect(code).To(Equal(http.StatusOK))
			Expect(response.Token).NotTo(BeEmpty())

			claims, err := auth.NewTokenIssuer(DefaultSecretKey, 0).Parse(response.Token)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims).To(Equal(&auth.Claims{Username: "u1"}))
		})

		It("Should return 401 for a wrong password", func() {
			var response models.ModelError
			code := client.ExecutePost(e.AuthTokenPathFormat, `{"username": "u1", "password": "nope"}`, &response)
			Expect(code).To(Equal(http.StatusUnauthorized))
			Expect(response.Description).To(Equal("Invalid username/password"))
		})
	})

	Describe("POST /auth/register", func() {
		It("Should register a non admin user", func() {
			var response models.AuthTokenResponse
			body := `{"username": "new", "password": "password", "firstName": "F", "lastName": "L", "email": "new@email.com"}`
			Expect(client.ExecutePost(e.AuthRegisterPathFormat, body, &response)).To(Equal(http.StatusCreated))

			var user userDetailResponse
			code := client.WithToken(response.Token).ExecuteGet(e.UserPathFormat, &user, "new")
			Expect(code).To(Equal(http.StatusOK))
			Expect(user.User.IsAdmin).To(BeFalse())
			Expect(user.User.Jobs).To(BeEmpty())
		})

		It("Should return 400 for a duplicate username", func() {
			var response models.ModelError
			body := `{"username": "u1", "password": "password", "firstName": "F", "lastName": "L", "email": "new@email.com"}`
			Expect(client.ExecutePost(e.AuthRegisterPathFormat, body, &response)).To(Equal(http.StatusBadRequest))
			Expect(response.Description).To(Equal("Duplicate username: u1"))
		})
	})

	Describe("Companies", func() {
		It("Should filter companies", func() {
			var response models.CompaniesResponse
			code := client.ExecuteGet(e.CompaniesPathFormat+"?minEmployees=%s&maxEmployees=%s", &response, "2", "3")
			Expect(code).To(Equal(http.StatusOK))
			Expect(response.Companies).To(HaveLen(2))
			Expect(response.Companies[0].Handle).To(Equal("c2"))
			Expect(response.Companies[1].Handle).To(Equal("c3"))
		})

		It("Should reject an inverted employees range", func() {
			var response models.ModelError
			code := client.ExecuteGet(e.CompaniesPathFormat+"?minEmployees=%s&maxEmployees=%s", &response, "3", "2")
			Expect(code).To(Equal(http.StatusBadRequest))
		})

		It("Should get a company with its jobs", func() {
			var response companyDetailResponse
			Expect(client.ExecuteGet(e.CompanyPathFormat, &response, "c1")).To(Equal(http.StatusOK))
			Expect(response.Company.Name).To(Equal("C1"))
			Expect(response.Company.Jobs).To(HaveLen(3))
			Expect(response.Company.Jobs[0].ID).To(Equal(jobs[0].ID))
		})

		It("Should only let administrators update a company", func() {
			body := `{"name": "C1-new", "numEmployees": null}`
			Expect(client.ExecutePatch(e.CompanyPathFormat, body, nil, "c1")).To(Equal(http.StatusUnauthorized))
			Expect(client.WithToken(u1Token).ExecutePatch(e.CompanyPathFormat, body, nil, "c1")).
				To(Equal(http.StatusUnauthorized))

			var response companyDetailResponse
			code := client.WithToken(adminTok).ExecutePatch(e.CompanyPathFormat, body, &response, "c1")
			Expect(code).To(Equal(http.StatusOK))
			Expect(response.Company.Handle).To(Equal("c1"))
			Expect(response.Company.Name).To(Equal("C1-new"))
			Expect(response.Company.NumEmployees).To(BeNil())
		})

		It("Should reject an empty patch", func() {
			var response models.ModelError
			code := client.WithToken(adminTok).ExecutePatch(e.CompanyPathFormat, `{}`, &response, "c1")
			Expect(code).To(Equal(http.StatusBadRequest))
			Expect(response.Description).To(Equal("No data"))
		})

		It("Should remove a company and its jobs", func() {
			var deleted models.DeletedResponse
			Expect(client.WithToken(adminTok).ExecuteDelete(e.CompanyPathFormat, &deleted, "c1")).To(Equal(http.StatusOK))
			Expect(deleted.Deleted).To(Equal("c1"))

			Expect(client.ExecuteGet(e.CompanyPathFormat, nil, "c1")).To(Equal(http.StatusNotFound))
			Expect(client.ExecuteGet(e.JobPathFormat, nil, fmt.Sprint(jobs[0].ID))).To(Equal(http.StatusNotFound))
		})
	})

	Describe("Jobs", func() {
		It("Should create a job", func() {
			var response models.JobResponse
			body := `{"title": "J4", "salary": 10, "equity": "0.5", "companyHandle": "c2"}`
			code := client.WithToken(adminTok).ExecutePost(e.JobsPathFormat, body, &response)
			Expect(code).To(Equal(http.StatusCreated))
			Expect(response.Job.Title).To(Equal("J4"))
			Expect(response.Job.Equity.String()).To(Equal("0.5"))
		})

		It("Should return 400 for an unknown company", func() {
			var response models.ModelError
			body := `{"title": "J4", "companyHandle": "nope"}`
			code := client.WithToken(adminTok).ExecutePost(e.JobsPathFormat, body, &response)
			Expect(code).To(Equal(http.StatusBadRequest))
			Expect(response.Description).To(Equal("No company: nope"))
		})

		It("Should filter jobs with equity", func() {
			var response models.JobsResponse
			code := client.ExecuteGet(e.JobsPathFormat+"?hasEquity=%s&title=%s", &response, "true", "j")
			Expect(code).To(Equal(http.StatusOK))
			Expect(response.Jobs).To(HaveLen(2))
			Expect(response.Jobs[0].Title).To(Equal("J1"))
			Expect(response.Jobs[1].Title).To(Equal("J2"))
		})

		It("Should not allow changing the company of a job", func() {
			var response models.ModelError
			code := client.WithToken(adminTok).
				ExecutePatch(e.JobPathFormat, `{"companyHandle": "c2"}`, &response, fmt.Sprint(jobs[0].ID))
			Expect(code).To(Equal(http.StatusBadRequest))
			Expect(response.Description).To(Equal("companyHandle is not allowed"))
		})
	})

	Describe("Users", func() {
		It("Should let a user see itself but not others", func() {
			var response userDetailResponse
			Expect(client.WithToken(u1Token).ExecuteGet(e.UserPathFormat, &response, "u1")).To(Equal(http.StatusOK))
			Expect(response.User.Email).To(Equal("user1@user.com"))

			Expect(client.WithToken(u1Token).ExecuteGet(e.UserPathFormat, nil, "admin")).
				To(Equal(http.StatusUnauthorized))
		})

		It("Should only list users for administrators", func() {
			Expect(client.WithToken(u1Token).ExecuteGet(e.UsersPathFormat, nil)).To(Equal(http.StatusUnauthorized))

			var response models.UsersResponse
			Expect(client.WithToken(adminTok).ExecuteGet(e.UsersPathFormat, &response)).To(Equal(http.StatusOK))
			Expect(response.Users).To(HaveLen(2))
		})

		It("Should update the password of a user", func() {
			Expect(client.WithToken(u1Token).ExecutePatch(e.UserPathFormat, `{"password": "changed1"}`, nil, "u1")).
				To(Equal(http.StatusOK))

			var token models.AuthTokenResponse
			code := client.ExecutePost(e.AuthTokenPathFormat, `{"username": "u1", "password": "changed1"}`, &token)
			Expect(code).To(Equal(http.StatusOK))
		})

		It("Should apply to a job once", func() {
			id := fmt.Sprint(jobs[1].ID)

			var applied models.AppliedResponse
			code := client.WithToken(u1Token).ExecutePost(e.UserJobPathFormat, "", &applied, "u1", id)
			Expect(code).To(Equal(http.StatusOK))
			Expect(applied.Applied).To(Equal(id))

			Expect(client.WithToken(u1Token).ExecutePost(e.UserJobPathFormat, "", nil, "u1", id)).
				To(Equal(http.StatusConflict))

			var response userDetailResponse
			Expect(client.WithToken(u1Token).ExecuteGet(e.UserPathFormat, &response, "u1")).To(Equal(http.StatusOK))
			Expect(response.User.Jobs).To(Equal([]int64{jobs[1].ID}))
		})

		It("Should return 404 when applying to a missing job", func() {
			Expect(client.WithToken(u1Token).ExecutePost(e.UserJobPathFormat, "", nil, "u1", "0")).
				To(Equal(http.StatusNotFound))
		})
	})
})
