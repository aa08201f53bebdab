package memory

import (
	"testing"

	"github.com/task3-labs/task3-go/pkg/dataOperator"
)

func Test_InMemoryDataOperator_Compliance(t *testing.T) {
	suite := &dataOperator.TestSuite{
		NewStore: func(t *testing.T) dataOperator.IDataOperator {
			return NewInMemoryDataOperator()
		},
	}
	suite.Run(t)
}
