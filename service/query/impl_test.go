package query

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/database/mongoclient"
	"github.com/x-xyz/goroyalty/domain"
)

var (
	mockCTX = ctx.Background()
)

const (
	mockTable = domain.Table("query_test")
	dbName    = "testdb"
)

type dummy struct {
	Dummy  string `bson:"dummy"`
	Update string `bson:"updatekey"`
}

// querySuite needs a replica set, set TEST_MONGO_URI to run it
type querySuite struct {
	suite.Suite
	im *impl
}

func (q *querySuite) SetupSuite() {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		q.T().Skip("TEST_MONGO_URI not set")
	}
	client := mongoclient.MustConnectMongoClient(&mongoclient.MongoCfg{
		URI:        uri,
		AuthDBName: "admin",
		DBName:     dbName,
		SetSafe:    true,
	})
	q.im = New(client).(*impl)
}

func (q *querySuite) SetupTest() {
	q.Require().NoError(q.im.collection(mockTable).Drop(mockCTX))
	// transactions cannot create collections on older servers
	q.Require().NoError(q.im.Insert(mockCTX, mockTable, bson.M{"dummy": "seed"}))
}

func (q *querySuite) TestUpsertAndFindOne() {
	q.Require().NoError(q.im.Upsert(mockCTX, mockTable, bson.M{"dummy": "a"}, dummy{"a", "1"}))
	q.Require().NoError(q.im.Upsert(mockCTX, mockTable, bson.M{"dummy": "a"}, dummy{"a", "2"}))

	res := dummy{}
	q.Require().NoError(q.im.FindOne(mockCTX, mockTable, bson.M{"dummy": "a"}, &res))
	q.Equal(dummy{"a", "2"}, res)

	n, err := q.im.Count(mockCTX, mockTable, bson.M{"dummy": "a"})
	q.Require().NoError(err)
	q.Equal(1, n)

	q.Equal(ErrNotFound, q.im.FindOne(mockCTX, mockTable, bson.M{"dummy": "b"}, &res))
}

func (q *querySuite) TestSearchAndRemoveAll() {
	for _, v := range []string{"3", "1", "2"} {
		q.Require().NoError(q.im.Insert(mockCTX, mockTable, dummy{"s", v}))
	}

	res := []dummy{}
	q.Require().NoError(q.im.Search(mockCTX, mockTable, 0, 0, "-updatekey", bson.M{"dummy": "s"}, &res))
	q.Equal([]dummy{{"s", "3"}, {"s", "2"}, {"s", "1"}}, res)

	n, err := q.im.RemoveAll(mockCTX, mockTable, bson.M{"dummy": "s"})
	q.Require().NoError(err)
	q.Equal(int64(3), n)
}

func (q *querySuite) TestRunWithTransaction() {
	errAbort := errors.New("abort")
	err := q.im.RunWithTransaction(mockCTX, func(c ctx.Ctx) error {
		q.Require().NoError(q.im.Insert(c, mockTable, dummy{"t", "1"}))
		return errAbort
	})
	q.Require().ErrorIs(err, errAbort)

	res := dummy{}
	q.Equal(ErrNotFound, q.im.FindOne(mockCTX, mockTable, bson.M{"dummy": "t"}, &res))

	q.Require().NoError(q.im.RunWithTransaction(mockCTX, func(c ctx.Ctx) error {
		return q.im.Insert(c, mockTable, dummy{"t", "2"})
	}))
	q.Require().NoError(q.im.FindOne(mockCTX, mockTable, bson.M{"dummy": "t"}, &res))
	q.Equal("2", res.Update)
}

func TestQuerySuite(t *testing.T) {
	suite.Run(t, new(querySuite))
}
