package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "campjournal.v1.CampJournal"

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary builds a method descriptor around a handler with typed request and
// response messages.
func unary[Req, Resp any](name string, h func(*GRPCServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}

			s := srv.(*GRPCServer)
			call := func(ctx context.Context, req any) (any, error) {
				resp, err := h(s, ctx, req.(*Req))
				if err != nil {
					return nil, s.toStatus(ctx, name, err)
				}
				return resp, nil
			}

			if interceptor == nil {
				return call(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			return interceptor(ctx, in, info, call)
		},
	}
}

// campJournalServer is the handler type the descriptor is registered for.
type campJournalServer interface {
	Ping(context.Context, *Empty) (*PingResponse, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*campJournalServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", (*GRPCServer).Ping),

		unary("SignUp", (*GRPCServer).SignUp),
		unary("SignIn", (*GRPCServer).SignIn),
		unary("RefreshToken", (*GRPCServer).RefreshToken),
		unary("SignOut", (*GRPCServer).SignOut),

		unary("GetProfile", (*GRPCServer).GetProfile),
		unary("UpdateProfile", (*GRPCServer).UpdateProfile),
		unary("SearchUsers", (*GRPCServer).SearchUsers),
		unary("GetUserStats", (*GRPCServer).GetUserStats),

		unary("Follow", (*GRPCServer).Follow),
		unary("Unfollow", (*GRPCServer).Unfollow),
		unary("IsFollowing", (*GRPCServer).IsFollowing),
		unary("GetFollowStats", (*GRPCServer).GetFollowStats),

		unary("SearchPlaces", (*GRPCServer).SearchPlaces),
		unary("ImportPlace", (*GRPCServer).ImportPlace),
		unary("GetOrCreateCampground", (*GRPCServer).GetOrCreateCampground),
		unary("GetCampground", (*GRPCServer).GetCampground),
		unary("ListCampgrounds", (*GRPCServer).ListCampgrounds),
		unary("GetCampgroundStats", (*GRPCServer).GetCampgroundStats),
		unary("GetCampgroundVisitors", (*GRPCServer).GetCampgroundVisitors),
		unary("GetCampgroundEntries", (*GRPCServer).GetCampgroundEntries),

		unary("CreateEntry", (*GRPCServer).CreateEntry),
		unary("GetEntry", (*GRPCServer).GetEntry),
		unary("UpdateEntry", (*GRPCServer).UpdateEntry),
		unary("DeleteEntry", (*GRPCServer).DeleteEntry),
		unary("ListUserEntries", (*GRPCServer).ListUserEntries),
		unary("ListEntriesForCampground", (*GRPCServer).ListEntriesForCampground),
		unary("GetFeed", (*GRPCServer).GetFeed),
		unary("ListVisitedLocations", (*GRPCServer).ListVisitedLocations),
		unary("LogVisit", (*GRPCServer).LogVisit),

		unary("ShareEntry", (*GRPCServer).ShareEntry),
		unary("AcceptDraft", (*GRPCServer).AcceptDraft),
		unary("RejectDraft", (*GRPCServer).RejectDraft),
		unary("ListDrafts", (*GRPCServer).ListDrafts),

		unary("UploadPhoto", (*GRPCServer).UploadPhoto),
		unary("UploadAvatar", (*GRPCServer).UploadAvatar),
		unary("SavePhoto", (*GRPCServer).SavePhoto),
		unary("GetPhotos", (*GRPCServer).GetPhotos),
		unary("DeletePhoto", (*GRPCServer).DeletePhoto),
		unary("PresignPhotoURL", (*GRPCServer).PresignPhotoURL),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "campjournal/v1/campjournal.json",
}
